package botskills

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maestrokit/maestro/internal/skills"
	"github.com/maestrokit/maestro/pkg/models"
)

// mockRunner records invocations instead of shelling out.
type mockRunner struct {
	calls [][]string
	err   error
}

func (r *mockRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	return "", r.err
}

func testLogger() *Logger {
	return NewLogger(io.Discard)
}

func writeManifest(t *testing.T, dir, name string, m models.SkillManifest) string {
	t.Helper()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func writeSkillsFile(t *testing.T, dir string, manifests ...models.SkillManifest) string {
	t.Helper()
	path := filepath.Join(dir, "skills.json")
	if err := skills.WriteFile(path, &skills.File{Skills: manifests}); err != nil {
		t.Fatalf("write skills file: %v", err)
	}
	return path
}

func validManifest(id, name string) models.SkillManifest {
	return models.SkillManifest{
		ID:       id,
		Name:     name,
		Endpoint: "https://skills.example.com/" + id + "/api/messages",
		Actions:  []models.Action{{ID: id + "/run"}},
	}
}

func lastOf(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[len(list)-1]
}

func TestConnect_MissingManifestArgument(t *testing.T) {
	logger := testLogger()
	c := &Connect{Logger: logger, Runner: &mockRunner{}, SkillsFile: filepath.Join(t.TempDir(), "skills.json")}

	if c.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "Either the 'localManifest' or 'remoteManifest' argument should be passed."
	if got := lastOf(logger.Errors()); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestConnect_ValidationErrors(t *testing.T) {
	dir := t.TempDir()
	manifest := validManifest("testSkill", "")
	manifestPath := writeManifest(t, dir, "manifest.json", manifest)

	logger := testLogger()
	c := &Connect{
		Logger:        logger,
		Runner:        &mockRunner{},
		SkillsFile:    filepath.Join(dir, "skills.json"),
		LocalManifest: manifestPath,
	}

	if c.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "Missing property 'name' of the manifest"
	if got := lastOf(logger.Errors()); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestConnect_InvalidID(t *testing.T) {
	dir := t.TempDir()
	manifest := validManifest("1bad-id", "Test Skill")
	manifestPath := writeManifest(t, dir, "manifest.json", manifest)

	logger := testLogger()
	c := &Connect{
		Logger:        logger,
		Runner:        &mockRunner{},
		SkillsFile:    filepath.Join(dir, "skills.json"),
		LocalManifest: manifestPath,
	}

	if c.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "The 'id' of the manifest contains some characters not allowed. Make sure the 'id' contains only letters, numbers and underscores, but doesn't start with number."
	if got := lastOf(logger.Errors()); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestConnect_DuplicateWarns(t *testing.T) {
	dir := t.TempDir()
	manifest := validManifest("testSkill", "Test Skill")
	manifestPath := writeManifest(t, dir, "manifest.json", manifest)
	skillsFile := writeSkillsFile(t, dir, manifest)

	logger := testLogger()
	c := &Connect{
		Logger:        logger,
		Runner:        &mockRunner{},
		SkillsFile:    skillsFile,
		LocalManifest: manifestPath,
	}

	if c.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "The skill 'Test Skill' is already registered."
	if got := lastOf(logger.Warnings()); got != want {
		t.Errorf("warning = %q, want %q", got, want)
	}
}

func TestConnect_AppendsAndRefreshes(t *testing.T) {
	dir := t.TempDir()
	manifest := validManifest("testSkill", "Test Skill")
	manifestPath := writeManifest(t, dir, "manifest.json", manifest)
	skillsFile := writeSkillsFile(t, dir)

	logger := testLogger()
	runner := &mockRunner{}
	c := &Connect{
		Logger:        logger,
		Runner:        runner,
		SkillsFile:    skillsFile,
		LocalManifest: manifestPath,
	}

	if !c.Execute(context.Background()) {
		t.Fatalf("Execute = false, errors: %v", logger.Errors())
	}

	file, err := skills.ReadFile(skillsFile)
	if err != nil {
		t.Fatalf("read skills file: %v", err)
	}
	if _, ok := file.Find("testSkill"); !ok {
		t.Error("testSkill not appended to the skills file")
	}
	if len(runner.calls) != 1 || runner.calls[0][0] != "dispatch" {
		t.Errorf("runner calls = %v, want one dispatch refresh", runner.calls)
	}
	want := "Successfully connected 'Test Skill' skill to your assistant's skills configuration file."
	if got := lastOf(logger.Successes()); got != want {
		t.Errorf("success = %q, want %q", got, want)
	}
}

func TestConnect_NoRefreshWarns(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeManifest(t, dir, "manifest.json", validManifest("testSkill", "Test Skill"))

	logger := testLogger()
	runner := &mockRunner{}
	c := &Connect{
		Logger:        logger,
		Runner:        runner,
		SkillsFile:    filepath.Join(dir, "skills.json"),
		LocalManifest: manifestPath,
		NoRefresh:     true,
	}

	if !c.Execute(context.Background()) {
		t.Fatalf("Execute = false, errors: %v", logger.Errors())
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner invoked %v despite NoRefresh", runner.calls)
	}
	if len(logger.Warnings()) == 0 {
		t.Error("no warning about the skipped refresh")
	}
}

func TestDisconnect_AbsentSkillWarns(t *testing.T) {
	dir := t.TempDir()
	skillsFile := writeSkillsFile(t, dir, validManifest("otherSkill", "Other"))

	logger := testLogger()
	d := &Disconnect{Logger: logger, Runner: &mockRunner{}, SkillsFile: skillsFile, SkillID: "testSkill"}

	if d.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "The skill 'testSkill' is not present in the assistant Skills configuration file."
	if got := lastOf(logger.Warnings()); got != want {
		t.Errorf("warning = %q, want %q", got, want)
	}
}

func TestDisconnect_MissingSkillsFile(t *testing.T) {
	logger := testLogger()
	d := &Disconnect{
		Logger:     logger,
		Runner:     &mockRunner{},
		SkillsFile: filepath.Join(t.TempDir(), "absent.json"),
		SkillID:    "testSkill",
	}

	if d.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	want := "The 'skillsFile' argument is absent or leads to a non-existing file."
	if got := lastOf(logger.Errors()); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestDisconnect_RemovesSkill(t *testing.T) {
	dir := t.TempDir()
	skillsFile := writeSkillsFile(t, dir,
		validManifest("testSkill", "Test Skill"),
		validManifest("otherSkill", "Other"),
	)

	logger := testLogger()
	d := &Disconnect{Logger: logger, Runner: &mockRunner{}, SkillsFile: skillsFile, SkillID: "testSkill"}

	if !d.Execute(context.Background()) {
		t.Fatalf("Execute = false, errors: %v", logger.Errors())
	}
	want := "Successfully removed 'testSkill' skill from your assistant's skills configuration file."
	if got := lastOf(logger.Successes()); got != want {
		t.Errorf("success = %q, want %q", got, want)
	}

	file, err := skills.ReadFile(skillsFile)
	if err != nil {
		t.Fatalf("read skills file: %v", err)
	}
	if _, ok := file.Find("testSkill"); ok {
		t.Error("testSkill still present after disconnect")
	}
	if _, ok := file.Find("otherSkill"); !ok {
		t.Error("otherSkill removed by disconnecting testSkill")
	}
}

func TestUpdate_ContinuesAcrossFailures(t *testing.T) {
	dir := t.TempDir()

	good := validManifest("goodSkill", "Good Skill")
	goodUpdated := good
	goodUpdated.Description = "now with more actions"
	bad := validManifest("badSkill", "") // fails validation

	skillsFile := writeSkillsFile(t, dir, good, validManifest("badSkill", "Bad Skill"))
	goodPath := writeManifest(t, dir, "good.json", goodUpdated)
	badPath := writeManifest(t, dir, "bad.json", bad)

	logger := testLogger()
	runner := &mockRunner{}
	u := &Update{
		Logger:     logger,
		Runner:     runner,
		SkillsFile: skillsFile,
		Manifests:  []string{badPath, goodPath},
		NoRefresh:  true,
	}

	if u.Execute(context.Background()) {
		t.Fatal("Execute = true, want false when one skill fails validation")
	}

	want := "Missing property 'name' of the manifest"
	if got := lastOf(logger.Errors()); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	// The failing manifest must not block the good one.
	file, err := skills.ReadFile(skillsFile)
	if err != nil {
		t.Fatalf("read skills file: %v", err)
	}
	updated, ok := file.Find("goodSkill")
	if !ok {
		t.Fatal("goodSkill missing after update")
	}
	if updated.Description != "now with more actions" {
		t.Errorf("goodSkill description = %q, want the updated manifest applied", updated.Description)
	}
	if _, ok := file.Find("badSkill"); !ok {
		t.Error("badSkill dropped from the file by a failed update")
	}
	wantSuccess := "Successfully updated 'Good Skill' skill in your assistant's skills configuration file."
	if got := lastOf(logger.Successes()); got != wantSuccess {
		t.Errorf("success = %q, want %q", got, wantSuccess)
	}
	if len(runner.calls) != 0 {
		t.Errorf("dispatch ran despite NoRefresh: %v", runner.calls)
	}
}

func TestRefresh_RunnerFailure(t *testing.T) {
	logger := testLogger()
	r := &Refresh{
		Logger:     logger,
		Runner:     &mockRunner{err: os.ErrPermission},
		SkillsFile: "skills.json",
	}

	if r.Execute(context.Background()) {
		t.Fatal("Execute = true, want false")
	}
	if !logger.IsError() {
		t.Error("no error retained for the failed refresh")
	}
}

func TestList_RendersTable(t *testing.T) {
	dir := t.TempDir()
	skillsFile := writeSkillsFile(t, dir, validManifest("testSkill", "Test Skill"))

	logger := testLogger()
	l := &List{Logger: logger, SkillsFile: skillsFile}

	if !l.Execute() {
		t.Fatalf("Execute = false, errors: %v", logger.Errors())
	}
	out := lastOf(logger.Messages())
	for _, want := range []string{"testSkill", "Test Skill", "testSkill/run"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}
