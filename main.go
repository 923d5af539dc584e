package main

import "procurement/cli"

func main() {
	cli.Execute()
}
