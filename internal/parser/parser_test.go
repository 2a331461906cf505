package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleScenario(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Eating
    Given I have 5 cukes
    When  I eat 2 cukes
    Then  I have 3 cukes left
`)
	doc, errors := Parse("cukes.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "Cukes", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)

	sd := doc.Feature.Scenarios[0]
	assert.Equal(t, "Eating", sd.Scenario.Name)
	assert.Equal(t, 2, sd.Line)
	require.Len(t, sd.Scenario.Steps, 3)
	assert.Equal(t, Step{Keyword: "Given", Text: "I have 5 cukes", Line: 3}, sd.Scenario.Steps[0])
	assert.Equal(t, Step{Keyword: "When", Text: "I eat 2 cukes", Line: 4}, sd.Scenario.Steps[1])
	assert.Equal(t, Step{Keyword: "Then", Text: "I have 3 cukes left", Line: 5}, sd.Scenario.Steps[2])
}

func TestParse_Conjunctions(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Eating
    Given I have 5 cukes
    And I am hungry
    But I am not greedy
    * I have a fork
`)
	doc, errors := Parse("cukes.feature", content)
	require.Empty(t, errors)
	steps := doc.Feature.Scenarios[0].Scenario.Steps
	require.Len(t, steps, 4)
	assert.Equal(t, "And", steps[1].Keyword)
	assert.Equal(t, "But", steps[2].Keyword)
	assert.Equal(t, "*", steps[3].Keyword)
	assert.Equal(t, "I have a fork", steps[3].Text)
}

func TestParse_KeywordPrefixIsNotAStep(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Eating
    Givenly this is description
    Given I have 5 cukes
`)
	doc, errors := Parse("cukes.feature", content)
	require.Empty(t, errors)
	sc := doc.Feature.Scenarios[0].Scenario
	assert.Equal(t, "Givenly this is description", sc.Description)
	require.Len(t, sc.Steps, 1)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 2)
	assert.Equal(t, "User logs in", doc.Feature.Scenarios[0].Scenario.Name)
	assert.Equal(t, "User fails login", doc.Feature.Scenarios[1].Scenario.Name)
}

func TestParse_Background(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When  they log in
    Then  they see the dashboard
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.NotNil(t, doc.Feature.Background)
	assert.Equal(t, 2, doc.Feature.Background.Line)
	require.Len(t, doc.Feature.Background.Steps, 1)
	assert.Equal(t, "a registered user", doc.Feature.Background.Steps[0].Text)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 2)
}

func TestParse_MultipleBackgrounds(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a registered user
  Background:
    Given an admin
`)
	_, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "multiple Background sections", errors[0].Message)
	assert.Equal(t, 4, errors[0].Line)
}

func TestParse_FeatureAndScenarioTags(t *testing.T) {
	content := []byte(`@web
Feature: Login
  Users sign in.

  @smoke @slow
  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, []Tag{{Name: "@web"}}, doc.Feature.Header.Tags)
	assert.Equal(t, "Users sign in.", doc.Feature.Header.Description)
	assert.Equal(t, []Tag{{Name: "@smoke"}, {Name: "@slow"}}, doc.Feature.Scenarios[0].Tags)
}

func TestParse_ScenarioOutlineError(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario Outline: User logs in
    Given a user <name>
`)
	_, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "Scenario Outline is not supported", errors[0].Message)
	assert.Equal(t, 2, errors[0].Line)
}

func TestParse_RuleError(t *testing.T) {
	content := []byte(`Feature: Login
  Rule: Business rule
    Scenario: Test
`)
	_, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "Rule is not supported", errors[0].Message)
}

func TestParse_ExamplesError(t *testing.T) {
	content := []byte(`Feature: Login
  Examples: Table
    | a |
`)
	_, errors := Parse("login.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "Examples is not supported", errors[0].Message)
}

func TestParse_NoFeatureLine(t *testing.T) {
	content := []byte(`  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "User logs in", doc.Feature.Scenarios[0].Scenario.Name)
}

func TestParse_BlankLinesAndComments(t *testing.T) {
	content := []byte(`# This is a comment
Feature: Login
  # Another comment
  Scenario: User logs in
    Given a user

    # between steps
    When  they log in
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	assert.Equal(t, "Login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 2)
}

func TestParse_EmptyFile(t *testing.T) {
	doc, errors := Parse("empty.feature", []byte(""))
	require.Empty(t, errors)
	assert.Equal(t, "empty", doc.Feature.Header.Name)
}

func TestParse_TagsBeforeMultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  @tag1
  Scenario: First
    Given a

  @tag2
  Scenario: Second
    Given b
`)
	doc, errors := Parse("login.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 2)
	assert.Equal(t, []Tag{{Name: "@tag1"}}, doc.Feature.Scenarios[0].Tags)
	assert.Equal(t, []Tag{{Name: "@tag2"}}, doc.Feature.Scenarios[1].Tags)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 1)
}

func TestParse_DocString(t *testing.T) {
	content := []byte(`Feature: Catalog
  Scenario: Loading
    Given the catalog:
      """yaml
      bindings:
        - handler: A
      """
    Then it loads
`)
	doc, errors := Parse("catalog.feature", content)
	require.Empty(t, errors)
	steps := doc.Feature.Scenarios[0].Scenario.Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].Argument)
	require.NotNil(t, steps[0].Argument.DocString)
	assert.Equal(t, "yaml", steps[0].Argument.DocString.MediaType)
	assert.Equal(t, "bindings:\n  - handler: A", steps[0].Argument.DocString.Content)
}

func TestParse_DocStringContentIsOpaque(t *testing.T) {
	content := []byte(`Feature: Parse Scenarios
  Scenario: Outer
    Given the file contains:
      """
      Feature: Login
        @web
        Scenario: Inner
          Given a user
      """
    When the user runs sync
`)
	doc, errors := Parse("test.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "Outer", doc.Feature.Scenarios[0].Scenario.Name)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 2)
}

func TestParse_DocStringWithBackticks(t *testing.T) {
	content := []byte("Feature: Test\n  Scenario: Has code block\n    Given content:\n      ```\n      Scenario: Not real\n      ```\n    Then it works\n")
	doc, errors := Parse("test.feature", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 1)
	steps := doc.Feature.Scenarios[0].Scenario.Steps
	require.Len(t, steps, 2)
	assert.Equal(t, "Scenario: Not real", steps[0].Argument.DocString.Content)
}

func TestParse_UnterminatedDocString(t *testing.T) {
	content := []byte("Feature: Test\n  Scenario: Broken\n    Given content:\n      \"\"\"\n      never closed\n")
	_, errors := Parse("test.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, "unterminated doc string", errors[0].Message)
	assert.Equal(t, 4, errors[0].Line)
}

func TestParse_DataTable(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Basket
    Given the basket:
      | name   | count |
      | gherkin | 3     |
      | a \| b  | 1     |
`)
	doc, errors := Parse("cukes.feature", content)
	require.Empty(t, errors)
	table := doc.Feature.Scenarios[0].Scenario.Steps[0].Argument.DataTable
	require.NotNil(t, table)
	assert.Equal(t, []string{"name", "count"}, table.HeaderRow)
	assert.Equal(t, [][]string{{"gherkin", "3"}, {"a | b", "1"}}, table.Rows)
}

func TestParse_DataTableErrors(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Basket
    | orphan |
    Given the basket:
      | name | count |
      | gherkin |
`)
	_, errors := Parse("cukes.feature", content)
	require.Len(t, errors, 2)
	assert.Equal(t, ParseError{Line: 3, Message: "data table row without a step"}, errors[0])
	assert.Equal(t, ParseError{Line: 6, Message: "inconsistent cell count"}, errors[1])
}

func TestParse_UnexpectedLineAfterSteps(t *testing.T) {
	content := []byte(`Feature: Cukes
  Scenario: Eating
    Given I have 5 cukes
    eat them
`)
	_, errors := Parse("cukes.feature", content)
	require.Len(t, errors, 1)
	assert.Equal(t, 4, errors[0].Line)
	assert.Equal(t, `line 4: unexpected line "eat them"`, errors[0].Error())
}

func TestParseRow_Escapes(t *testing.T) {
	assert.Equal(t, []string{"a", `b\c`, "x\ny", `\d+`}, parseRow(`| a | b\\c | x\ny | \d+ |`))
}
