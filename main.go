package main

import "github.com/KaramelBytes/feedcheck-cli/cmd"

func main() {
	cmd.Execute()
}
