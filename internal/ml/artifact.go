package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// ArtifactVersion is bumped whenever the serialized layout changes.
const ArtifactVersion = 1

// Artifact is the persisted outcome of a training run.
type Artifact struct {
	Version    int               `json:"version"`
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Table      string            `json:"table"`
	Pipeline   *Pipeline         `json:"pipeline"`
	CVResults  []CandidateResult `json:"cv_results"`
	BestParams Params            `json:"best_params"`
	BestScore  float64           `json:"best_score"`
	Report     *Report           `json:"report,omitempty"`
}

// NewArtifact packages a finished search for saving.
func NewArtifact(table string, res *SearchResult, report *Report) *Artifact {
	return &Artifact{
		Version:    ArtifactVersion,
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Table:      table,
		Pipeline:   res.Best,
		CVResults:  res.Candidates,
		BestParams: res.BestParams(),
		BestScore:  res.BestScore(),
		Report:     report,
	}
}

// SaveArtifact writes a zstd-compressed JSON artifact. The file is written to a
// temporary sibling and renamed, so an existing artifact is replaced whole or not at all.
func SaveArtifact(path string, a *Artifact) (err error) {
	if a == nil || a.Pipeline == nil {
		return fmt.Errorf("%w: nothing to save", common.ErrWrite)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", common.ErrWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp_model_*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", common.ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		return fmt.Errorf("%w: failed to create compressor: %v", common.ErrWrite, err)
	}
	if err = json.NewEncoder(enc).Encode(a); err != nil {
		_ = enc.Close()
		return fmt.Errorf("%w: failed to encode model: %v", common.ErrWrite, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush compressor: %v", common.ErrWrite, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: failed to sync model: %v", common.ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close model: %v", common.ErrWrite, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to move model into place: %v", common.ErrWrite, err)
	}
	return nil
}

// LoadArtifact reads an artifact written by SaveArtifact and binds its tokenizer.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open model %s: %v", common.ErrDataAccess, path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create decompressor: %v", common.ErrDataAccess, err)
	}
	defer dec.Close()

	var a Artifact
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: failed to decode model %s: %v", common.ErrDataAccess, path, err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: model %s has version %d, expected %d", common.ErrDataAccess, path, a.Version, ArtifactVersion)
	}
	if a.Pipeline == nil || a.Pipeline.Vect == nil || a.Pipeline.Tfidf == nil || a.Pipeline.Clf == nil {
		return nil, fmt.Errorf("%w: model %s has no fitted pipeline", common.ErrDataAccess, path)
	}
	if err := a.Pipeline.bind(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDataAccess, err)
	}
	return &a, nil
}

// LoadPredictor loads the fitted pipeline from an artifact.
func LoadPredictor(path string) (*Pipeline, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return a.Pipeline, nil
}
