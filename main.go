package main

import "github.com/ctfwriteup/ctfwriteup/cmd"

func main() {
	cmd.Execute()
}
