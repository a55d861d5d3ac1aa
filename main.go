// SPDX-License-Identifier: MPL-2.0

package main

import cmd "termframe/cmd/termframe"

func main() {
	cmd.Execute()
}
