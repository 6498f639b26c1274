package main

import "github.com/Tiliavir/hourglass/cmd"

func main() {
	cmd.Execute()
}
