package main

import (
	"github.com/zxiong/pulp/cmd/pulpctl/cmd"
	"github.com/zxiong/pulp/internal/logging"
)

func main() {
	logging.New()
	cmd.Execute()
}
