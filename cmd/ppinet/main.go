package main

import "github.com/mchmarny/ppinet/pkg/cli"

func main() {
	cli.Execute()
}
