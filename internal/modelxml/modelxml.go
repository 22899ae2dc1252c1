// Package modelxml inspects MorpheusML model documents for the structural
// sections the simulator needs to produce output artifacts.
//
// The checks are deliberately substring-based: generated documents are often
// not well-formed XML, and the whole point is to classify and score exactly
// those broken drafts. A schema validator would reject them outright.
package modelxml

import (
	"regexp"
	"strconv"
	"strings"
)

// Validation describes which required sections a model document carries.
type Validation struct {
	Valid                bool     `json:"valid"`
	Errors               []string `json:"errors"`
	Warnings             []string `json:"warnings"`
	HasAnalysis          bool     `json:"has_analysis"`
	HasGnuplotter        bool     `json:"has_gnuplotter"`
	HasLogger            bool     `json:"has_logger"`
	HasModelGraph        bool     `json:"has_model_graph"`
	HasTimeConfig        bool     `json:"has_time_config"`
	HasCellTypes         bool     `json:"has_cell_types"`
	HasSpace             bool     `json:"has_space"`
	GraphGenerationReady bool     `json:"graph_generation_ready"`
}

// Sanitize strips markdown code fences the model sometimes wraps XML in.
var (
	fenceOpen  = regexp.MustCompile(`(?i)^\s*` + "```" + `xml\s*`)
	fenceClose = regexp.MustCompile("\\s*```\\s*$")
)

func Sanitize(xml string) string {
	xml = strings.TrimSpace(xml)
	xml = fenceOpen.ReplaceAllString(xml, "")
	xml = fenceClose.ReplaceAllString(xml, "")
	return strings.TrimSpace(xml)
}

// LooksLikeModel reports whether text resembles a MorpheusModel document.
func LooksLikeModel(xml string) bool {
	return strings.Contains(xml, "<MorpheusModel") &&
		strings.Contains(xml, "</MorpheusModel>") &&
		strings.Contains(xml, "version=")
}

// Validate checks a model document for the sections required for output
// generation and returns a structured report.
func Validate(xml string) Validation {
	v := Validation{Valid: true, Errors: []string{}, Warnings: []string{}}

	if !strings.Contains(xml, "<MorpheusModel") {
		v.Valid = false
		v.Errors = append(v.Errors, "Missing <MorpheusModel> root element")
		return v
	}
	if !strings.Contains(xml, "</MorpheusModel>") {
		v.Valid = false
		v.Errors = append(v.Errors, "Missing </MorpheusModel> closing tag")
		return v
	}

	v.HasSpace = strings.Contains(xml, "<Space")
	v.HasTimeConfig = strings.Contains(xml, "<Time") && strings.Contains(xml, "<StopTime")
	v.HasCellTypes = strings.Contains(xml, "<CellTypes")
	v.HasAnalysis = strings.Contains(xml, "<Analysis")
	v.HasGnuplotter = strings.Contains(xml, "<Gnuplotter")
	v.HasLogger = strings.Contains(xml, "<Logger")
	v.HasModelGraph = strings.Contains(xml, "<ModelGraph")

	if !v.HasSpace {
		v.Warnings = append(v.Warnings, "Missing <Space> section")
	}
	if !v.HasTimeConfig {
		v.Warnings = append(v.Warnings, "Missing <Time> section with <StopTime>")
	}
	if !v.HasCellTypes {
		v.Warnings = append(v.Warnings, "Missing <CellTypes> section")
	}
	if !v.HasAnalysis {
		v.Errors = append(v.Errors, "Missing <Analysis> section - no output files will be generated")
		v.Valid = false
	}
	if !v.HasGnuplotter {
		v.Errors = append(v.Errors, "Missing <Gnuplotter> - no PNG graphs will be generated")
		v.Valid = false
	}
	if !v.HasLogger {
		v.Warnings = append(v.Warnings, "Missing <Logger> - no CSV data will be generated")
	}
	if !v.HasModelGraph {
		v.Warnings = append(v.Warnings, "Missing <ModelGraph> - no model graph will be generated")
	}

	v.GraphGenerationReady = v.HasAnalysis && v.HasGnuplotter
	return v
}

// AnalysisTemplate returns a minimal Analysis block the agent can splice into
// a model that is missing its output configuration.
func AnalysisTemplate() string {
	return `    <Analysis>
        <Gnuplotter time-step="10" decorate="true">
            <Terminal name="png"/>
            <Plot title="Cell Simulation">
                <Cells value="cell.type" min="0" max="1">
                    <ColorMap>
                        <Color value="0" color="white"/>
                        <Color value="1" color="red"/>
                    </ColorMap>
                </Cells>
            </Plot>
        </Gnuplotter>
        <Logger time-step="10">
            <Input>
                <Symbol symbol-ref="celltype.cells.size"/>
            </Input>
            <Output>
                <TextOutput/>
            </Output>
        </Logger>
        <ModelGraph reduced="false" include-tags="#untagged"/>
    </Analysis>
`
}

var stopTimeRe = regexp.MustCompile(`<StopTime\s+value="([0-9.]+)"`)

// ExtractStopTime returns the configured StopTime value, if present.
func ExtractStopTime(xml string) (float64, bool) {
	m := stopTimeRe.FindStringSubmatch(xml)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractTimes parses the simulator's "Time: <n>" progress lines from its
// stdout and returns the observed simulated times in order.
func ExtractTimes(out string) []float64 {
	var times []float64
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "Time:") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Time:")), 64)
		if err != nil {
			continue
		}
		times = append(times, v)
	}
	return times
}
