package main

import "github.com/maherraissi/MedFlow/cmd"

func main() {
	cmd.Execute()
}
