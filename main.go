package main

import "appdetect/cmd"

func main() {
	cmd.Execute()
}
