/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/phillipboles/aci-contract/cmd"

func main() {
	cmd.Execute()
}
