package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/baseplate/storeops/internal/core/form"
)

var (
	// ErrAborted is returned when the user declines to discard grid edits.
	ErrAborted = errors.New("action aborted")
	// ErrSuperseded is returned by a search a newer one replaced.
	ErrSuperseded    = errors.New("search superseded")
	ErrInvalidFilter = errors.New("required search line is empty")
	ErrClosed        = errors.New("search session closed")
)

const (
	SaveFailedMessage     = "Unable to save changes. Please try again."
	DiscardChangesMessage = "You have unsaved changes. Do you want to discard them?"
	DefaultPageSize       = 25
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Message is a user notification.
type Message struct {
	Severity   Severity `json:"severity"`
	Text       string   `json:"message"`
	HasTimeout bool     `json:"hasTimeout,omitempty"`
}

type Notifier interface {
	AddMessage(Message)
}

type NotifierFunc func(Message)

func (f NotifierFunc) AddMessage(m Message) { f(m) }

// Confirmer asks the user before edits are discarded.
type Confirmer interface {
	Confirm(ctx context.Context, text string) bool
}

type ConfirmFunc func(ctx context.Context, text string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, text string) bool { return f(ctx, text) }

type SearchFunc[T any] func(ctx context.Context, q QuerySearch) (Result[T], error)

type SaveFunc func(ctx context.Context, patches []Patch) (int, error)

// GridBuilder builds the inline edit form of one result row.
type GridBuilder[T any] func(ctx context.Context, row T) (*form.Group, error)

type SessionConfig[T any] struct {
	// Screen keys previous-search state.
	Screen  string
	Columns Columns
	Search  SearchFunc[T]
	Save    SaveFunc
	Grid    GridBuilder[T]
	// RowID extracts the id patches are sent with; nil reads the "id" field
	// of the row form.
	RowID     func(T) any
	Store     PreviousSearchStore
	Notifier  Notifier
	Confirmer Confirmer
	PageSize  int
	Logger    *slog.Logger
}

// Session is the state of one search screen: filter, sort, page, results
// and the grid edit forms built from them.
type Session[T any] struct {
	cfg    SessionConfig[T]
	logger *slog.Logger

	mu        sync.Mutex
	filter    *Filter
	sort      Sort
	page      Page
	content   []T
	total     int64
	chips     []Chip
	displayed []string
	gridMode  bool
	rows      []*form.Group
	selected  map[int]bool
	loading   bool

	life       context.Context
	stop       context.CancelFunc
	rowsCtx    context.Context
	rowsCancel context.CancelFunc
	rowCancel  []context.CancelFunc
	inflight   context.CancelFunc
	seq        uint64
}

func NewSession[T any](cfg SessionConfig[T]) (*Session[T], error) {
	if cfg.Search == nil {
		return nil, errors.New("search session needs a search function")
	}
	if err := cfg.Columns.Validate(); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NotifierFunc(func(Message) {})
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })
	}
	logger := cfg.Logger.With("screen", cfg.Screen)
	filter, err := NewFilter(cfg.Columns, logger)
	if err != nil {
		return nil, err
	}
	life, stop := context.WithCancel(context.Background())
	return &Session[T]{
		cfg:       cfg,
		logger:    logger,
		filter:    filter,
		sort:      NormalizeSort(Sort{}, cfg.Columns),
		page:      Page{Size: cfg.PageSize},
		displayed: cfg.Columns.Names(),
		selected:  map[int]bool{},
		life:      life,
		stop:      stop,
	}, nil
}

// Restore loads the previous search and displayed columns, keeping the
// defaults for whatever is missing or unreadable.
func (s *Session[T]) Restore(ctx context.Context) error {
	ps, err := s.cfg.Store.PreviousSearch(ctx, s.cfg.Screen)
	if err != nil {
		s.logger.Warn("loading previous search", "error", err)
	}
	cols, err := s.cfg.Store.PreviousColumns(ctx, s.cfg.Screen)
	if err != nil {
		s.logger.Warn("loading previous columns", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ps != nil {
		if err := s.filter.Load(ps.Filters); err != nil {
			return err
		}
		if ps.Sort.Direction != "" && s.cfg.Columns.ByField(ps.Sort.Field) != nil {
			s.sort = ps.Sort
		}
		s.page = ps.Page
		if s.page.Size <= 0 {
			s.page.Size = s.cfg.PageSize
		}
	}
	var known []string
	for _, name := range cols {
		if s.cfg.Columns.ByName(name) != nil {
			known = append(known, name)
		}
	}
	if len(known) > 0 {
		s.displayed = known
	}
	return nil
}

// Search runs the filter with the current sort and page.
func (s *Session[T]) Search(ctx context.Context) error {
	if !s.confirmDiscard(ctx) {
		return ErrAborted
	}
	s.mu.Lock()
	sort, page := s.sort, s.page
	s.mu.Unlock()
	return s.run(ctx, sort, page)
}

// ChangePage moves to another page. A nil sort keeps the current one.
func (s *Session[T]) ChangePage(ctx context.Context, number int, sort *Sort) error {
	if !s.confirmDiscard(ctx) {
		return ErrAborted
	}
	s.mu.Lock()
	next, page := s.sort, s.page
	s.mu.Unlock()
	if sort != nil {
		next = NormalizeSort(*sort, s.cfg.Columns)
	}
	page.Number = max(number, 0)
	return s.run(ctx, next, page)
}

func (s *Session[T]) confirmDiscard(ctx context.Context) bool {
	if !s.GridDirty() {
		return true
	}
	return s.cfg.Confirmer.Confirm(ctx, DiscardChangesMessage)
}

// run executes one search. Only the most recent call applies its result.
func (s *Session[T]) run(ctx context.Context, sort Sort, page Page) error {
	s.mu.Lock()
	if s.life.Err() != nil {
		s.mu.Unlock()
		return ErrClosed
	}
	if !s.filter.Valid() {
		s.mu.Unlock()
		return ErrInvalidFilter
	}
	if s.inflight != nil {
		s.inflight()
	}
	ctx, cancel := context.WithCancel(ctx)
	stopLife := context.AfterFunc(s.life, cancel)
	s.inflight = cancel
	s.seq++
	seq := s.seq
	lines := s.filter.Lines()
	states := s.filter.States()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		stopLife()
		cancel()
	}()

	q := QuerySearch{QueryRestrictions: Restrictions(lines), Sort: sort, Page: page}
	s.logger.Debug("searching", "restrictions", len(q.QueryRestrictions), "page", page.Number, "sort", sort.Field)
	res, err := s.cfg.Search(ctx, q)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.loading = false
	s.inflight = nil
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.applyLocked(res, lines, sort, page); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	ps := PreviousSearch{Filters: states, Sort: sort, Page: page}
	if err := s.cfg.Store.SavePreviousSearch(ctx, s.cfg.Screen, ps); err != nil {
		s.logger.Warn("saving previous search", "error", err)
	}
	return nil
}

func (s *Session[T]) applyLocked(res Result[T], lines []SearchLine, sort Sort, page Page) error {
	if s.rowsCancel != nil {
		s.rowsCancel()
	}
	s.rowsCtx, s.rowsCancel = context.WithCancel(s.life)
	rows := make([]*form.Group, 0, len(res.Content))
	cancels := make([]context.CancelFunc, 0, len(res.Content))
	if s.cfg.Grid != nil {
		for i, row := range res.Content {
			g, cancel, err := s.buildRow(row)
			if err != nil {
				return fmt.Errorf("building grid row %d: %w", i, err)
			}
			rows = append(rows, g)
			cancels = append(cancels, cancel)
		}
	}
	s.rowCancel = cancels
	s.content = res.Content
	s.total = res.TotalElements
	s.rows = rows
	s.selected = map[int]bool{}
	s.chips = Chips(lines)
	s.sort = sort
	s.page = page
	return nil
}

// buildRow builds the form of one result row under its own context, so a
// rebuilt row drops the rules of the group it replaces.
func (s *Session[T]) buildRow(row T) (*form.Group, context.CancelFunc, error) {
	ctx, cancel := context.WithCancel(s.rowsCtx)
	g, err := s.cfg.Grid(ctx, row)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return g, cancel, nil
}

// SetGridMode toggles inline editing. Leaving grid mode with unsaved edits
// asks first and resets the rows on confirmation.
func (s *Session[T]) SetGridMode(ctx context.Context, on bool) error {
	if !on && !s.confirmDiscard(ctx) {
		return ErrAborted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !on {
		for i, g := range s.rows {
			if g.Dirty() && s.cfg.Grid != nil {
				fresh, cancel, err := s.buildRow(s.content[i])
				if err != nil {
					s.logger.Warn("rebuilding grid row failed", "row", i, "error", err)
					continue
				}
				s.rowCancel[i]()
				s.rows[i], s.rowCancel[i] = fresh, cancel
			}
		}
	}
	s.gridMode = on
	return nil
}

// Select marks a result row for the next grid save.
func (s *Session[T]) Select(i int, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.content) {
		return
	}
	if on {
		s.selected[i] = true
	} else {
		delete(s.selected, i)
	}
}

// GridDirty reports unsaved edits on any row.
func (s *Session[T]) GridDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gridMode {
		return false
	}
	for _, g := range s.rows {
		if g.Dirty() {
			return true
		}
	}
	return false
}

// Row is the edit form of result row i.
func (s *Session[T]) Row(i int) *form.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// SaveGrid sends the patches of the selected rows and searches again from
// the first page.
func (s *Session[T]) SaveGrid(ctx context.Context) (int, error) {
	if s.cfg.Save == nil {
		return 0, errors.New("search session has no save function")
	}
	patches := s.Patches()
	if len(patches) == 0 {
		return 0, nil
	}
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	n, err := s.cfg.Save(ctx, patches)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		s.cfg.Notifier.AddMessage(Message{Severity: SeverityError, Text: SaveFailedMessage})
		return 0, err
	}
	s.cfg.Notifier.AddMessage(Message{
		Severity:   SeveritySuccess,
		Text:       fmt.Sprintf("%d record(s) updated.", n),
		HasTimeout: true,
	})

	s.mu.Lock()
	sort, page := s.sort, s.page
	s.mu.Unlock()
	page.Number = 0
	return n, s.run(ctx, sort, page)
}

// SetDisplayedColumns changes and persists the visible columns. Unknown
// names are dropped.
func (s *Session[T]) SetDisplayedColumns(ctx context.Context, names []string) error {
	var known []string
	for _, n := range names {
		if s.cfg.Columns.ByName(n) != nil {
			known = append(known, n)
		}
	}
	s.mu.Lock()
	s.displayed = known
	s.mu.Unlock()
	return s.cfg.Store.SavePreviousColumns(ctx, s.cfg.Screen, known)
}

func (s *Session[T]) Filter() *Filter { return s.filter }

func (s *Session[T]) Content() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.content)
}

func (s *Session[T]) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Session[T]) Chips() []Chip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.chips)
}

func (s *Session[T]) Sort() Sort {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Session[T]) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session[T]) GridMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gridMode
}

func (s *Session[T]) DisplayedColumns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.displayed)
}

// Close cancels any search in flight and detaches the row forms.
func (s *Session[T]) Close() {
	s.stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}
