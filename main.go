// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/bfw-systems/bfw/cmd/bfw"

func main() {
	cmd.Execute()
}
