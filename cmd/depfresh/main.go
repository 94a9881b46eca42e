package main

import "depfresh/internal/cli"

func main() {
	cli.Execute()
}
