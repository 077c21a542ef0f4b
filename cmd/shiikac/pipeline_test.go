package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiika-lang/shiikac/internal/examples"
)

func TestRunPipelineAnimalsBuildsVTablesAndLowersMethods(t *testing.T) {
	result, err := runPipeline(examples.Animals())
	require.NoError(t, err)

	assert.Contains(t, result.methods, "Animal#legs")
	assert.Contains(t, result.methods, "Dog#speak")
	assert.Contains(t, result.methods, "Dog#initialize")

	require.Contains(t, result.mir.VTables, "Dog")
	dogVT := result.mir.VTables["Dog"]
	assert.Contains(t, dogVT.Slots, "Dog#speak")
	assert.Contains(t, dogVT.Slots, "Animal#legs")
}

func TestRunPipelineIntOptionEnumIndexesCleanly(t *testing.T) {
	result, err := runPipeline(examples.IntOptionEnum())
	require.NoError(t, err)
	assert.Contains(t, result.mir.OwnClasses, "IntOption::Some")
	assert.Contains(t, result.mir.OwnClasses, "IntOption::None")
}

func TestRunPipelineLibraryExportsPopulated(t *testing.T) {
	result, err := runPipeline(examples.Animals())
	require.NoError(t, err)
	data, err := result.exports.ToJSON(false)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dog")
}
