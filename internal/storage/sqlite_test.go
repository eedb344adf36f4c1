package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func episode(policy string, score int) Episode {
	return Episode{Policy: policy, Score: score, Reward: 10 * (score - 1), Ticks: score * 7, Death: "wall", Width: 20, Height: 20}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.snakesim/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".snakesim", "test.db")); err != nil {
		t.Errorf("Database file was not created under home: %v", err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := Episode{Policy: "greedy", Seed: 1<<63 + 5, Score: 12, Reward: 100, Ticks: 321, Death: "self", Width: 32, Height: 24}
	id, err := store.SaveEpisode(want)
	if err != nil {
		t.Fatalf("SaveEpisode() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveEpisode() id = %d, expected positive", id)
	}

	got, err := store.TopEpisodes("greedy", 10)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 episode, got %d", len(got))
	}
	e := got[0]
	if e.Seed != want.Seed {
		t.Errorf("Seed = %d, expected %d", e.Seed, want.Seed)
	}
	if e.Score != 12 || e.Reward != 100 || e.Ticks != 321 || e.Death != "self" || e.Width != 32 || e.Height != 24 {
		t.Errorf("TopEpisodes()[0] = %+v, expected fields of %+v", e, want)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreTopEpisodesOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{5, 20, 3, 20, 8} {
		if _, err := store.SaveEpisode(episode("qnet", score)); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}
	store.SaveEpisode(episode("random", 50))

	top, err := store.TopEpisodes("qnet", 3)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}
	expected := []int{20, 20, 8}
	if len(top) != len(expected) {
		t.Fatalf("Expected %d episodes, got %d", len(expected), len(top))
	}
	for i, score := range expected {
		if top[i].Score != score {
			t.Errorf("top[%d].Score = %d, expected %d", i, top[i].Score, score)
		}
	}
	if top[0].ID > top[1].ID {
		t.Error("ties should list the earliest episode first")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	score, err := store.HighScore("human")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if score != 0 {
		t.Errorf("HighScore() with no episodes = %d, expected 0", score)
	}

	store.SaveEpisode(episode("human", 4))
	store.SaveEpisode(episode("human", 9))
	store.SaveEpisode(episode("greedy", 30))

	score, _ = store.HighScore("human")
	if score != 9 {
		t.Errorf("HighScore() = %d, expected 9", score)
	}
}

func TestStoreClearEpisodes(t *testing.T) {
	store := openTestStore(t)

	store.SaveEpisode(episode("random", 2))
	store.SaveEpisode(episode("random", 3))
	store.SaveEpisode(episode("greedy", 7))

	if err := store.ClearEpisodes("random"); err != nil {
		t.Fatalf("ClearEpisodes() failed: %v", err)
	}

	if eps, _ := store.TopEpisodes("random", 10); len(eps) != 0 {
		t.Errorf("Expected 0 random episodes after clear, got %d", len(eps))
	}
	if eps, _ := store.TopEpisodes("greedy", 10); len(eps) != 1 {
		t.Error("greedy episodes should not be affected by clearing random")
	}
}

func TestStoreRecentEpisodes(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 5; i++ {
		store.SaveEpisode(episode("random", i))
	}

	recent, err := store.RecentEpisodes(2)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].Score != 5 || recent[1].Score != 4 {
		t.Errorf("RecentEpisodes(2) = %+v, expected scores 5 and 4", recent)
	}
}

func TestStorePolicyStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetPolicyStats("greedy")
	if err != nil {
		t.Fatalf("GetPolicyStats() on empty table failed: %v", err)
	}
	if stats.Episodes != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveEpisode(episode("greedy", 4))
	store.SaveEpisode(episode("greedy", 8))
	store.SaveEpisode(episode("random", 2))
	store.SaveEpisode(episode("qnet", 30))

	stats, err = store.GetPolicyStats("greedy")
	if err != nil {
		t.Fatalf("GetPolicyStats() failed: %v", err)
	}
	if stats.Episodes != 2 || stats.HighScore != 8 || stats.AvgScore != 6 {
		t.Errorf("greedy stats = %+v, expected 2 episodes, high 8, avg 6", stats)
	}
	if stats.AvgTicks != 42 {
		t.Errorf("AvgTicks = %v, expected 42", stats.AvgTicks)
	}

	all, err := store.GetAllPolicyStats()
	if err != nil {
		t.Fatalf("GetAllPolicyStats() failed: %v", err)
	}
	order := []string{"qnet", "greedy", "random"}
	if len(all) != len(order) {
		t.Fatalf("Expected %d policies, got %d", len(order), len(all))
	}
	for i, p := range order {
		if all[i].Policy != p {
			t.Errorf("all[%d].Policy = %q, expected %q", i, all[i].Policy, p)
		}
	}
}

func TestStoreTrainingRuns(t *testing.T) {
	store := openTestStore(t)

	run := TrainingRun{RunID: "run-1", Episodes: 100, BestScore: 17, MeanScore: 6.5, ModelPath: "/tmp/model.json", Duration: 42}
	if _, err := store.SaveTrainingRun(run); err != nil {
		t.Fatalf("SaveTrainingRun() failed: %v", err)
	}
	if _, err := store.SaveTrainingRun(run); err == nil {
		t.Error("SaveTrainingRun() should reject a duplicate run ID")
	}

	got, err := store.TrainingRunByID("run-1")
	if err != nil {
		t.Fatalf("TrainingRunByID() failed: %v", err)
	}
	if got == nil || got.BestScore != 17 || got.MeanScore != 6.5 || got.ModelPath != run.ModelPath {
		t.Errorf("TrainingRunByID() = %+v, expected %+v", got, run)
	}

	missing, err := store.TrainingRunByID("nope")
	if err != nil || missing != nil {
		t.Errorf("TrainingRunByID(missing) = %v, %v; expected nil, nil", missing, err)
	}

	store.SaveTrainingRun(TrainingRun{RunID: "run-2", Episodes: 5})
	runs, err := store.RecentTrainingRuns(10)
	if err != nil {
		t.Fatalf("RecentTrainingRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-2" {
		t.Errorf("RecentTrainingRuns() = %+v, expected run-2 first", runs)
	}
}
