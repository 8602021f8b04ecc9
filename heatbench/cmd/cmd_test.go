package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/heatbench/grid"
	"github.com/sarchlab/heatbench/metrics"
)

func execute(args ...string) (string, error) {
	out := &bytes.Buffer{}

	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

var _ = Describe("heatbench", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should list the stages", func() {
		out, err := execute("stages")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("baseline\nblocked\nparallel\n"))
	})

	It("should run and record a benchmark", func() {
		db := filepath.Join(dir, "runs")

		out, err := execute("run",
			"--stage", "blocked",
			"--size", "12",
			"--timesteps", "4",
			"--output-dir", dir,
			"--record", db)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Running blocked with grid=12, steps=4"))
		Expect(out).To(ContainSubstring("steps/s"))
		Expect(out).To(MatchRegexp(`stencil +\S+ per step over 4 steps`))

		record, err := metrics.Read(filepath.Join(dir, metrics.FileName))
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Stage).To(Equal("blocked"))
		Expect(record.GridSize).To(Equal(12))

		out, err = execute("history", "--db", db+".sqlite3")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("blocked"))
		Expect(out).To(ContainSubstring("1 of 1 runs"))
	})

	It("should take settings from an env file", func() {
		envFile := filepath.Join(dir, "bench.env")
		Expect(os.WriteFile(envFile,
			[]byte("HEATBENCH_SIZE=9\nHEATBENCH_TIMESTEPS=0\n"), 0644)).
			To(Succeed())

		out, err := execute("run",
			"--env-file", envFile,
			"--output-dir", dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("grid=9, steps=0"))
		Expect(out).To(ContainSubstring("Performance:   undefined"))
		Expect(out).NotTo(ContainSubstring("per step over"))
	})

	It("should reject invalid input", func() {
		_, err := execute("run", "--size", "2", "--output-dir", dir)

		Expect(errors.Is(err, grid.ErrInvalidDimension)).To(BeTrue())
	})

	It("should require a database for history", func() {
		_, err := execute("history")

		Expect(err).To(HaveOccurred())
	})
})
