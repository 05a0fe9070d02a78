package main

import (
	"context"

	"github.com/txix-open/workerinject/cmd/workerinject/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
