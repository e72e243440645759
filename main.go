// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/dsidentify/cmd/dsidentify"

func main() {
	cmd.Execute()
}
