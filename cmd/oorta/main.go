// Copyright 2026 The liboo-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command oorta runs Rapid Type Analysis, Class Hierarchy Analysis
// and the plain static call-graph pass over a hierarchy described in
// a YAML scene file, for experimentation without a real frontend.
package main

import (
	"github.com/sknoth/liboo-go/cmd/oorta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.ExitWithError("%v", err)
	}
}
