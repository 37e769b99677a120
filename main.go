package main

import "github.com/frahmantamala/mediscript/cmd"

func main() {
	cmd.Execute()
}
