package main

import "github.com/frahmantamala/idea-portal/cmd"

func main() {
	cmd.Execute()
}
