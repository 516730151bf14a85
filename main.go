package main

import m430 "github.com/gmofishsauce/m430/cmd/m430"

func main() {
	m430.Execute()
}
