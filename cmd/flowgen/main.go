package main

import "github.com/viscouspot/maestro-flowgen/pkg/cli"

func main() {
	cli.Execute()
}
