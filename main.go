package main

import "github.com/hrnexus/hrnexus-cli/cmd"

func main() {
	cmd.Execute()
}
