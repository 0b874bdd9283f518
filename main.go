package main

import "sublime-migrate/cmd"

func main() {
	cmd.Execute()
}
