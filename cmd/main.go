package main

import "github.com/dasdy/softkbd/cmd/softkbd"

func main() {
	softkbd.Execute()
}
