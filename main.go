// SPDX-License-Identifier: MPL-2.0

package main

import cmd "testgraph-cli/cmd/testgraph"

func main() {
	cmd.Execute()
}
