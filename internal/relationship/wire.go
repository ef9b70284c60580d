package relationship

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/syntaxpresso/core/internal/debug"
	coreerrors "github.com/syntaxpresso/core/internal/errors"
	"github.com/syntaxpresso/core/internal/jpa"
	"github.com/syntaxpresso/core/internal/parser"
)

// Stage is a step of the wiring state machine. Stages only move forward;
// Failed is terminal and FailedAt names the step that was being attempted.
type Stage string

const (
	StageStart          Stage = "start"
	StageOwningLocated  Stage = "owning_located"
	StageOwningPatched  Stage = "owning_patched"
	StageInverseLocated Stage = "inverse_located"
	StageInversePatched Stage = "inverse_patched"
	StageDone           Stage = "done"
	StageFailed         Stage = "failed"
)

// FileWriter persists one patched file. A write either replaces the whole
// file or leaves it untouched.
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// SideStatus reports what happened to one file
type SideStatus struct {
	Updated         bool   `json:"updated"`
	FilePath        string `json:"file_path,omitempty"`
	FileType        string `json:"file_type,omitempty"`
	FilePackageName string `json:"file_package_name,omitempty"`
	FieldName       string `json:"field_name,omitempty"`
	Source          string `json:"-"`
	SourceHash      string `json:"source_hash,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Result is the aggregated outcome of a Wire call. It is returned together
// with any error so callers can report per-side state.
type Result struct {
	Kind        Kind       `json:"kind,omitempty"`
	Direction   Direction  `json:"direction,omitempty"`
	Stage       Stage      `json:"stage"`
	FailedAt    Stage      `json:"failed_at,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	OwningSide  SideStatus `json:"owning_side"`
	InverseSide SideStatus `json:"inverse_side"`
}

func (r *Result) advance(to Stage) {
	debug.Event("RELATIONSHIP", "stage", zap.String("from", string(r.Stage)), zap.String("to", string(to)))
	r.Stage = to
}

func (r *Result) fail(at Stage, err error) error {
	debug.Event("RELATIONSHIP", "failed", zap.String("at", string(at)), zap.Error(err))
	r.Stage = StageFailed
	r.FailedAt = at
	r.Reason = err.Error()
	return err
}

// Wirer runs relationship requests against a FileWriter
type Wirer struct {
	writer FileWriter
}

// NewWirer creates a Wirer that persists disk-backed sides through w
func NewWirer(w FileWriter) *Wirer {
	return &Wirer{writer: w}
}

// Wire adds the owning field and, for bidirectional requests, the inverse
// field. The inverse file is always read so the owning field can import
// its type. Both edits are computed before anything is written, so for two
// distinct files a partial failure can only come from writing the inverse.
func (w *Wirer) Wire(ctx context.Context, req Request) (*Result, error) {
	res := &Result{Stage: StageStart}
	if err := req.normalize(); err != nil {
		return res, res.fail(StageOwningLocated, err)
	}
	res.Kind, res.Direction = req.Kind, req.Direction
	res.OwningSide.FilePath = req.Owning.Path
	if req.bidirectional() {
		res.InverseSide.FilePath = req.Inverse.Path
	}

	owner, err := identify(req.Owning.File)
	if err != nil {
		res.OwningSide.Error = err.Error()
		return res, res.fail(StageOwningLocated, err)
	}
	target, err := identify(req.Inverse.File)
	if err != nil {
		res.InverseSide.Error = err.Error()
		return res, res.fail(StageOwningLocated, err)
	}

	owningCfg := req.owningField(target)
	if err := owningCfg.Validate(); err != nil {
		return res, res.fail(StageOwningLocated, err)
	}
	var (
		inverseCfg     *jpa.AssociationFieldConfig
		plannedInverse *jpa.FieldResult
	)
	if req.bidirectional() {
		inverseCfg = req.inverseField(owner, owningCfg.FieldName)
		if err := inverseCfg.Validate(); err != nil {
			return res, res.fail(StageOwningLocated, err)
		}
		// Surface inverse-side edit errors before the owning side is written
		if !sameFile(req.Owning, req.Inverse) {
			if plannedInverse, err = jpa.AddField(req.Inverse.File, inverseCfg, req.Options); err != nil {
				res.InverseSide.Error = err.Error()
				return res, res.fail(StageOwningLocated, err)
			}
		}
	}
	res.advance(StageOwningLocated)

	owning, err := jpa.AddField(req.Owning.File, owningCfg, req.Options)
	if err != nil {
		res.OwningSide.Error = err.Error()
		return res, res.fail(StageOwningPatched, err)
	}

	if req.bidirectional() && plannedInverse == nil {
		return w.wireSelf(ctx, req, inverseCfg, owning, res)
	}

	if err := w.commit(ctx, req.Owning, owning, &res.OwningSide); err != nil {
		res.OwningSide.Error = err.Error()
		return res, res.fail(StageOwningPatched, err)
	}
	res.advance(StageOwningPatched)

	if !req.bidirectional() {
		res.advance(StageDone)
		return res, nil
	}
	res.advance(StageInverseLocated)

	if err := w.commit(ctx, req.Inverse, plannedInverse, &res.InverseSide); err != nil {
		return res, partialFailure(res, StageInversePatched, err)
	}
	res.advance(StageInversePatched)
	res.advance(StageDone)
	return res, nil
}

// wireSelf finishes a self-referencing relationship. The inverse field goes on
// top of the owning edit and the combined source is written once, so the file
// never holds only one side.
func (w *Wirer) wireSelf(ctx context.Context, req Request, inverseCfg *jpa.AssociationFieldConfig, owning *jpa.FieldResult, res *Result) (*Result, error) {
	combined, err := req.Inverse.File.Reparse([]byte(owning.Source))
	if err != nil {
		res.InverseSide.Error = err.Error()
		return res, res.fail(StageOwningPatched, err)
	}
	defer combined.Close()
	inverse, err := jpa.AddField(combined, inverseCfg, req.Options)
	if err != nil {
		res.InverseSide.Error = err.Error()
		return res, res.fail(StageOwningPatched, err)
	}

	both := *owning
	both.Source, both.SourceHash = inverse.Source, inverse.SourceHash
	if err := w.commit(ctx, req.Owning, &both, &res.OwningSide); err != nil {
		res.OwningSide.Error = err.Error()
		return res, res.fail(StageOwningPatched, err)
	}
	res.advance(StageOwningPatched)
	res.advance(StageInverseLocated)
	record(inverse, &res.InverseSide)
	res.advance(StageInversePatched)
	res.advance(StageDone)
	return res, nil
}

// commit persists a patched side unless it is an editor buffer
func (w *Wirer) commit(ctx context.Context, side Side, out *jpa.FieldResult, status *SideStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !side.Buffer {
		if err := w.writer.WriteFile(ctx, side.Path, []byte(out.Source)); err != nil {
			return err
		}
	}
	record(out, status)
	return nil
}

func record(out *jpa.FieldResult, status *SideStatus) {
	status.Updated = true
	status.FileType = out.FileType
	status.FilePackageName = out.FilePackageName
	status.FieldName = out.FieldName
	status.Source = out.Source
	status.SourceHash = out.SourceHash
}

// partialFailure records an inverse-side failure after the owning side was written.
// Nothing is rolled back.
func partialFailure(res *Result, at Stage, err error) error {
	res.InverseSide.Error = err.Error()
	res.fail(at, err)
	return coreerrors.NewPartialFailureError(res,
		coreerrors.SideFailure{Side: "owning", Updated: true},
		coreerrors.SideFailure{Side: "inverse", Err: err},
	)
}

// identify locates the entity declared by f
func identify(f *parser.ParsedFile) (entity, error) {
	info := jpa.Inspect(f)
	if info.EntityType == "" {
		return entity{}, coreerrors.NewNotFoundError("public class declaration", f.Path())
	}
	if !info.IsJPAEntity {
		return entity{}, coreerrors.NewNotFoundError("@Entity annotation on "+info.EntityType, f.Path())
	}
	return entity{typeName: info.EntityType, pkg: info.EntityPackageName}, nil
}

func sameFile(a, b Side) bool {
	return a.Path != "" && filepath.Clean(a.Path) == filepath.Clean(b.Path)
}
