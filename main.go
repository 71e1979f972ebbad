package main

import "github.com/naka-gawa/repo-explorer/cmd"

func main() {
	cmd.Execute()
}
