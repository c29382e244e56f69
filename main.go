package main

import "spotify-data-agent/cmd"

func main() {
	cmd.Execute()
}
