// Package integration runs whole .ember scripts end to end and diffs their
// stdout/stderr against golden files, the way the teacher's filetest
// package drives its own language's golden-file suites.
package integration

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/emberlang/ember/internal/filetest"
	"github.com/emberlang/ember/lang/gc"
	"github.com/emberlang/ember/lang/machine"
)

var updateTests = flag.Bool("test.update-interpret-tests", false, "update the golden files for TestInterpretFiles")

const testdataDir = "testdata"

func TestInterpretFiles(t *testing.T) {
	for _, fi := range filetest.SourceFiles(t, testdataDir, ".ember") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			source, err := os.ReadFile(filepath.Join(testdataDir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			var stdout, stderr bytes.Buffer
			vm := machine.New(gc.New(), &stdout, &stderr)
			result := vm.Interpret(string(source))

			filetest.DiffOutput(t, fi, stdout.String(), testdataDir, updateTests)
			filetest.DiffErrors(t, fi, stderr.String(), testdataDir, updateTests)

			wantErr := result != machine.InterpretOk
			haveErrGolden := stderr.Len() > 0 || fileExists(filepath.Join(testdataDir, fi.Name()+".err"))
			if wantErr != haveErrGolden {
				t.Errorf("interpret result %v but error-golden presence is %v", result, haveErrGolden)
			}
		})
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
