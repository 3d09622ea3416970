package main

import "github.com/dbsmedya/langscan/cmd/langscan/cmd"

func main() {
	cmd.Execute()
}
