package main

import "kardly-server/cmd"

func main() {
	cmd.Execute()
}
