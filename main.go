package main

import "github.com/frahmantamala/police-portal/cmd"

func main() {
	cmd.Execute()
}
