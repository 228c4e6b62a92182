package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vallemarketing/valle360-teste-sub010/internal/config"
	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

func TestDefaultBoardTemplate(t *testing.T) {
	tpl := config.DefaultBoardTemplate()

	specs, err := tpl.ColumnSpecs()
	require.NoError(t, err)
	require.Len(t, specs, 6)
	assert.Equal(t, domain.StageScope, specs[0].StageKey)
	assert.Equal(t, domain.StageApproval, specs[2].StageKey)
	require.NotNil(t, specs[2].SLAHours)
	assert.Equal(t, 48, *specs[2].SLAHours)
	assert.Equal(t, domain.StageDone, specs[5].StageKey)
}

func TestParseBoardTemplate_AliasesAccepted(t *testing.T) {
	tpl, err := config.ParseBoardTemplate([]byte(`
columns:
  - name: Briefing
    stage: Briefing
  - name: Awaiting approval
    stage: "Awaiting Approval"
  - name: Final
    stage: FINAL
`))
	require.NoError(t, err)

	specs, err := tpl.ColumnSpecs()
	require.NoError(t, err)
	assert.Equal(t, domain.StageScope, specs[0].StageKey)
	assert.Equal(t, domain.StageApproval, specs[1].StageKey)
	assert.Equal(t, domain.StageDone, specs[2].StageKey)
}

func TestParseBoardTemplate_UnknownStageRejected(t *testing.T) {
	_, err := config.ParseBoardTemplate([]byte(`
columns:
  - name: Ideas
    stage: brainstorm
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownStage)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseBoardTemplate_OnlyTerminalRejected(t *testing.T) {
	_, err := config.ParseBoardTemplate([]byte(`
columns:
  - name: Done
    stage: done
`))
	assert.ErrorIs(t, err, domain.ErrInvalidBoard)
}

func TestLoadBoardTemplate_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
columns:
  - name: Todo
    stage: todo
  - name: Done
    stage: done
`), 0o600))

	tpl, err := config.LoadBoardTemplate(path)
	require.NoError(t, err)
	assert.Len(t, tpl.Columns, 2)

	_, err = config.LoadBoardTemplate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEngineWithDefaults(t *testing.T) {
	e := config.Engine{MinChangeRequestComment: 3}.WithDefaults()
	assert.Equal(t, 3, e.MinChangeRequestComment)
	assert.Equal(t, config.DefaultRenotifyInterval, e.RenotifyInterval)
	assert.Equal(t, config.DefaultRiskTopN, e.RiskTopN)
	assert.Equal(t, config.DefaultScanBatchSize, e.ScanBatchSize)

	e = config.Engine{ScanBatchSize: 25}.WithDefaults()
	assert.Equal(t, 25, e.ScanBatchSize)
}
