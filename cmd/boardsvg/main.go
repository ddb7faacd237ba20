package main

import "github.com/benoitkugler/boardsvg/cmd/boardsvg/cmd"

func main() {
	cmd.Execute()
}
