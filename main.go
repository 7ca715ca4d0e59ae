package main

import "github.com/sjzsdu/dirpilot/cmd"

func main() {
	cmd.Execute()
}
