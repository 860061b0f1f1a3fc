package main

import "github.com/epotocko/vexmusicxml/cmd"

func main() {
	cmd.Execute()
}
