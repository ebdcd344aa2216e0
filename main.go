// SPDX-License-Identifier: MPL-2.0

// shimrun launches the script that sits next to its executable with the
// interpreter that sits next to it too.
package main

import cmd "github.com/invowk/shimrun/cmd/shimrun"

func main() {
	cmd.Execute()
}
