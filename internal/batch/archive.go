package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gondimadv/arbitral/internal/common"
)

// ZipOutputs bundles every .docx in the job directory into
// contratos_<jobID>.zip inside that same directory.
func ZipOutputs(jobDir, jobID string) (string, error) {
	entries, err := os.ReadDir(jobDir)
	if err != nil {
		return "", common.WrapError(err, "read job directory")
	}

	var docs []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".docx") {
			docs = append(docs, e.Name())
		}
	}
	sort.Strings(docs)

	zipPath := filepath.Join(jobDir, fmt.Sprintf("contratos_%s.zip", jobID))
	out, err := os.Create(zipPath)
	if err != nil {
		return "", common.WrapError(err, "create job archive")
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range docs {
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return "", common.WrapError(err, "add archive entry")
		}
		f, err := os.Open(filepath.Join(jobDir, name))
		if err != nil {
			zw.Close()
			return "", common.WrapError(err, "open generated document")
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			zw.Close()
			return "", common.WrapError(err, "copy document into archive")
		}
	}
	if err := zw.Close(); err != nil {
		return "", common.WrapError(err, "finish job archive")
	}
	return zipPath, nil
}
