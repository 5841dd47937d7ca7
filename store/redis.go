package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsnotes/types"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by the Redis store
const DefaultKeyPrefix = "newsnotes"

// Redis is a Store backed by Redis.
//
// Layout:
//
//	<prefix>:articles            ZSET of article ids scored by creation sequence
//	<prefix>:articles:seq        creation sequence counter
//	<prefix>:article:<id>        article JSON (without notes)
//	<prefix>:article:<id>:notes  LIST of note ids in attach order
//	<prefix>:notes               SET of note ids
//	<prefix>:note:<id>           note JSON
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedis connects using a redis:// URL and verifies connectivity
func NewRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	return NewRedisWithClient(client, prefix), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) articlesKey() string              { return r.prefix + ":articles" }
func (r *Redis) seqKey() string                   { return r.prefix + ":articles:seq" }
func (r *Redis) articleKey(id string) string      { return r.prefix + ":article:" + id }
func (r *Redis) articleNotesKey(id string) string { return r.prefix + ":article:" + id + ":notes" }
func (r *Redis) notesKey() string                 { return r.prefix + ":notes" }
func (r *Redis) noteKey(id string) string         { return r.prefix + ":note:" + id }

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

func (r *Redis) FindArticles(ctx context.Context, filter ArticleFilter) ([]types.Article, error) {
	ids, err := r.client.ZRange(ctx, r.articlesKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("list articles", err)
	}
	if len(ids) == 0 {
		return []types.Article{}, nil
	}

	pipe := r.client.Pipeline()
	gets := make([]*redis.StringCmd, len(ids))
	notes := make([]*redis.StringSliceCmd, len(ids))
	for i, id := range ids {
		gets[i] = pipe.Get(ctx, r.articleKey(id))
		notes[i] = pipe.LRange(ctx, r.articleNotesKey(id), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, unavailable("load articles", err)
	}

	out := make([]types.Article, 0, len(ids))
	for i := range ids {
		raw, err := gets[i].Bytes()
		if errors.Is(err, redis.Nil) {
			// index entry outlived its record; skip it
			continue
		}
		if err != nil {
			return nil, unavailable("load article", err)
		}
		a, err := decodeArticle(raw, notes[i].Val())
		if err != nil {
			return nil, err
		}
		if filter.Matches(a) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *Redis) FindArticleByID(ctx context.Context, id string) (*types.Article, error) {
	pipe := r.client.Pipeline()
	get := pipe.Get(ctx, r.articleKey(id))
	notes := pipe.LRange(ctx, r.articleNotesKey(id), 0, -1)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, unavailable("load article", err)
	}

	raw, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("load article", err)
	}
	return decodeArticle(raw, notes.Val())
}

func (r *Redis) CreateArticle(ctx context.Context, fields types.ArticleFields) (*types.Article, error) {
	now := r.now().UTC()
	a := &types.Article{
		ID:        uuid.NewString(),
		Link:      fields.Link,
		Image:     fields.Image,
		Title:     fields.Title,
		Category:  fields.Category,
		Summary:   fields.Summary,
		Saved:     false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	raw, err := encodeArticle(a)
	if err != nil {
		return nil, err
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return nil, unavailable("create article", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.articleKey(a.ID), raw, 0)
		pipe.ZAdd(ctx, r.articlesKey(), redis.Z{Score: float64(seq), Member: a.ID})
		return nil
	})
	if err != nil {
		return nil, unavailable("create article", err)
	}

	a.Notes = []string{}
	return a, nil
}

func (r *Redis) UpdateArticle(ctx context.Context, id string, patch types.ArticlePatch) (*types.Article, error) {
	a, err := r.FindArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(a)
	a.UpdatedAt = r.now().UTC()

	raw, err := encodeArticle(a)
	if err != nil {
		return nil, err
	}
	// XX keeps a concurrent delete from being resurrected
	ok, err := r.client.SetXX(ctx, r.articleKey(id), raw, redis.KeepTTL).Result()
	if err != nil {
		return nil, unavailable("update article", err)
	}
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return a, nil
}

func (r *Redis) DeleteArticle(ctx context.Context, id string) error {
	removed, err := r.client.ZRem(ctx, r.articlesKey(), id).Result()
	if err != nil {
		return unavailable("delete article", err)
	}
	if removed == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err := r.client.Del(ctx, r.articleKey(id), r.articleNotesKey(id)).Err(); err != nil {
		return unavailable("delete article", err)
	}
	return nil
}

func (r *Redis) DeleteAllArticles(ctx context.Context) (int, error) {
	ids, err := r.client.ZRange(ctx, r.articlesKey(), 0, -1).Result()
	if err != nil {
		return 0, unavailable("delete articles", err)
	}
	keys := make([]string, 0, 2*len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.articleKey(id), r.articleNotesKey(id))
	}
	keys = append(keys, r.articlesKey())
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return 0, unavailable("delete articles", err)
	}
	return len(ids), nil
}

func (r *Redis) CreateNote(ctx context.Context, body types.NoteBody) (*types.Note, error) {
	n := &types.Note{
		ID:        uuid.NewString(),
		Body:      body,
		CreatedAt: r.now().UTC(),
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode note: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.noteKey(n.ID), raw, 0)
		pipe.SAdd(ctx, r.notesKey(), n.ID)
		return nil
	})
	if err != nil {
		return nil, unavailable("create note", err)
	}
	return n, nil
}

// DeleteNote removes the note only. Articles keep their reference to it.
func (r *Redis) DeleteNote(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, r.noteKey(id)).Result()
	if err != nil {
		return unavailable("delete note", err)
	}
	if removed == 0 {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err := r.client.SRem(ctx, r.notesKey(), id).Err(); err != nil {
		return unavailable("delete note", err)
	}
	return nil
}

func (r *Redis) DeleteAllNotes(ctx context.Context) (int, error) {
	ids, err := r.client.SMembers(ctx, r.notesKey()).Result()
	if err != nil {
		return 0, unavailable("delete notes", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, r.noteKey(id))
	}
	keys = append(keys, r.notesKey())
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return 0, unavailable("delete notes", err)
	}
	return len(ids), nil
}

// attachNote pushes the note id only when both the article and the note
// exist, so a concurrent DeleteArticle cannot leave an orphaned notes list.
var attachNote = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then return -1 end
if redis.call("EXISTS", KEYS[2]) == 0 then return -2 end
return redis.call("RPUSH", KEYS[3], ARGV[1])
`)

func (r *Redis) AttachNoteToArticle(ctx context.Context, articleID, noteID string) (*types.Article, error) {
	keys := []string{r.articleKey(articleID), r.noteKey(noteID), r.articleNotesKey(articleID)}
	n, err := attachNote.Run(ctx, r.client, keys, noteID).Int()
	if err != nil {
		return nil, unavailable("attach note", err)
	}
	switch n {
	case -1:
		return nil, fmt.Errorf("article %s: %w", articleID, ErrNotFound)
	case -2:
		return nil, fmt.Errorf("note %s: %w", noteID, ErrNotFound)
	}
	return r.FindArticleByID(ctx, articleID)
}

func (r *Redis) FindArticleWithNotes(ctx context.Context, id string) (*types.ArticleWithNotes, error) {
	a, err := r.FindArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &types.ArticleWithNotes{Article: *a, ResolvedNotes: []types.Note{}}
	if len(a.Notes) == 0 {
		return out, nil
	}

	keys := make([]string, len(a.Notes))
	for i, nid := range a.Notes {
		keys[i] = r.noteKey(nid)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("load notes", err)
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			out.MissingNotes = append(out.MissingNotes, a.Notes[i])
			continue
		}
		var n types.Note
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			return nil, fmt.Errorf("decode note %s: %w", a.Notes[i], err)
		}
		out.ResolvedNotes = append(out.ResolvedNotes, n)
	}
	return out, nil
}

// Close releases the underlying connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}

func encodeArticle(a *types.Article) ([]byte, error) {
	c := *a
	c.Notes = nil
	raw, err := json.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("encode article: %w", err)
	}
	return raw, nil
}

func decodeArticle(raw []byte, notes []string) (*types.Article, error) {
	var a types.Article
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode article: %w", err)
	}
	if notes == nil {
		notes = []string{}
	}
	a.Notes = notes
	return &a, nil
}
