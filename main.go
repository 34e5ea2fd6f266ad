package main

import "github.com/chrisdamba/ridersim/cmd"

func main() {
	cmd.Execute()
}
