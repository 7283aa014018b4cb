package main

import "github.com/okian/swimconv/internal/cli"

func main() {
	cli.Execute()
}
