package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/skillcheck/skillcheck/pkg/e2e"
	"github.com/skillcheck/skillcheck/pkg/integration"
	"github.com/skillcheck/skillcheck/pkg/unittest"
)

// fixtureFile is the YAML shape of a test fixture file. Workflow steps and
// outcome checks are declarative only; validation hooks need Go code and are
// not expressible here.
type fixtureFile struct {
	Triggers    map[string][]unittest.TriggerFixture `yaml:"triggers"`
	Integration []integration.TestCase               `yaml:"integration"`
	E2E         []e2eCaseSpec                        `yaml:"e2e"`
}

type e2eCaseSpec struct {
	Name               string            `yaml:"name"`
	Description        string            `yaml:"description"`
	Workflow           []e2eStepSpec     `yaml:"workflow"`
	ProjectTemplate    string            `yaml:"project_template"`
	AllowedCommands    []string          `yaml:"allowed_commands"`
	Env                map[string]string `yaml:"env"`
	ExpectedFiles      []string          `yaml:"expected_files"`
	ExpectedCommits    int               `yaml:"expected_commits"`
	ValidationCommands []string          `yaml:"validation_commands"`
	CommandTimeout     string            `yaml:"command_timeout"`
	KeepWorkspace      bool              `yaml:"keep_workspace"`
}

type e2eStepSpec struct {
	Name   string         `yaml:"name"`
	Skill  string         `yaml:"skill"`
	Params map[string]any `yaml:"params"`
}

func (spec e2eCaseSpec) toCase() (e2e.TestCase, error) {
	var timeout time.Duration
	if spec.CommandTimeout != "" {
		var err error
		timeout, err = time.ParseDuration(spec.CommandTimeout)
		if err != nil {
			return e2e.TestCase{}, errors.Wrapf(err, "invalid command_timeout in case %q", spec.Name)
		}
	}

	tc := e2e.TestCase{
		Name:               spec.Name,
		Description:        spec.Description,
		ProjectTemplate:    spec.ProjectTemplate,
		AllowedCommands:    spec.AllowedCommands,
		Env:                spec.Env,
		ExpectedFiles:      spec.ExpectedFiles,
		ExpectedCommits:    spec.ExpectedCommits,
		ValidationCommands: spec.ValidationCommands,
		CommandTimeout:     timeout,
		KeepWorkspace:      spec.KeepWorkspace,
	}
	for _, step := range spec.Workflow {
		tc.Workflow = append(tc.Workflow, e2e.Step{
			Name:      step.Name,
			SkillName: step.Skill,
			Params:    step.Params,
		})
	}
	return tc, nil
}

// loadFixtures reads a fixture file. An empty path yields empty fixtures so
// commands can run the definition-only tiers without one.
func loadFixtures(path string) (*fixtureFile, error) {
	if path == "" {
		return &fixtureFile{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fixture file")
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse fixture file")
	}
	return &f, nil
}

func (f *fixtureFile) e2eCases() ([]e2e.TestCase, error) {
	cases := make([]e2e.TestCase, 0, len(f.E2E))
	for _, spec := range f.E2E {
		tc, err := spec.toCase()
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}
