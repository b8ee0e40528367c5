package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vartanbeno/go-reddit/v2/reddit"

	"faceless-pipeline/config"
	"faceless-pipeline/types"
)

// Researcher pulls story candidates from Reddit and scores them against
// the configured hook keywords. Already-used stories are skipped.
type Researcher struct {
	cfg    *config.Config
	client *reddit.Client
}

func New(cfg *config.Config) (*Researcher, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("create reddit client: %w", err)
	}
	return &Researcher{cfg: cfg, client: client}, nil
}

// FindStories fetches top weekly posts from each configured subreddit
// and returns scored candidates, best first.
func (r *Researcher) FindStories(ctx context.Context) ([]types.Story, error) {
	used, err := r.loadUsedStories()
	if err != nil {
		log.Printf("[research] ⚠️ could not load used stories log: %v", err)
		used = map[string]bool{}
	}

	var stories []types.Story
	for _, sub := range r.cfg.Research.Subreddits {
		posts, _, err := r.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: r.cfg.Research.MaxStoriesToEval},
			Time:        "week",
		})
		if err != nil {
			log.Printf("[research] ⚠️ failed to fetch r/%s: %v", sub, err)
			continue
		}

		for _, post := range posts {
			if post.Score < r.cfg.Research.MinRedditScore {
				continue
			}
			if used[post.Permalink] {
				continue
			}

			published := ""
			if post.Created != nil {
				published = post.Created.UTC().Format(time.RFC3339)
			}
			stories = append(stories, types.Story{
				ID:          uuid.New().String(),
				Title:       post.Title,
				Body:        post.Body,
				Source:      "reddit:r/" + sub,
				SourceURL:   post.Permalink,
				Score:       scoreStory(post, r.cfg.Research.HookKeywords),
				PublishedAt: published,
			})
		}
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Score > stories[j].Score
	})

	log.Printf("[research] ✅ found %d candidate stories", len(stories))
	return stories, nil
}

// MarkUsed appends a story to the used-stories log so later runs skip it.
func (r *Researcher) MarkUsed(story *types.Story) error {
	used, err := r.loadUsedStories()
	if err != nil {
		used = map[string]bool{}
	}
	used[story.SourceURL] = true

	path := r.cfg.Paths.UsedStoriesLog
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	var permalinks []string
	for p := range used {
		permalinks = append(permalinks, p)
	}
	sort.Strings(permalinks)

	data, err := json.MarshalIndent(permalinks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (r *Researcher) loadUsedStories() (map[string]bool, error) {
	data, err := os.ReadFile(r.cfg.Paths.UsedStoriesLog)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	var permalinks []string
	if err := json.Unmarshal(data, &permalinks); err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(permalinks))
	for _, p := range permalinks {
		used[p] = true
	}
	return used, nil
}

// scoreStory weighs upvotes plus keyword hits in the title and body.
func scoreStory(post *reddit.Post, keywords []string) int {
	score := post.Score / 100

	text := strings.ToLower(post.Title + " " + post.Body)
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 25
		}
	}

	// longer bodies give the script writer more to work with
	words := len(strings.Fields(post.Body))
	switch {
	case words > 300:
		score += 20
	case words > 100:
		score += 10
	}

	return score
}
