package main

import "github.com/KaramelBytes/qcov/cmd"

func main() {
	cmd.Execute()
}
