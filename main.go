package main

import "manifestify/cmd"

func main() {
	cmd.Execute()
}
