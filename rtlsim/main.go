// Package main is the rtlsim command line tool.
package main

import "github.com/sarchlab/rtlsim/rtlsim/cmd"

func main() {
	cmd.Execute()
}
