// Command conductor runs matches between two UCI engines, following the
// cobra CLI shape of the teacher's internal/arbiter/cmd package.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/laldon/cutechess/internal/arbiter/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
