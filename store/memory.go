package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixmycity-be/models"
)

// MemoryStore is an in-memory Store used by tests in place of MongoDB. It
// honors the same transactional semantics: all writes inside WithTransaction
// become visible together or not at all, and subscribers only see events from
// committed work.
type MemoryStore struct {
	mu          sync.Mutex
	submissions map[models.Source]map[primitive.ObjectID]models.Submission
	issues      map[primitive.ObjectID]models.Issue
	orders      map[primitive.ObjectID]models.WorkOrder

	nextSub     int
	subscribers map[int]*memSubscriber

	// FailInsertWorkOrder forces InsertWorkOrder inside a transaction to
	// fail, for exercising rollback.
	FailInsertWorkOrder error
}

type memSubscriber struct {
	ch          chan Event
	collections map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: map[models.Source]map[primitive.ObjectID]models.Submission{
			models.SourceRawSubmissions:  {},
			models.SourcePredictedIssues: {},
		},
		issues:      map[primitive.ObjectID]models.Issue{},
		orders:      map[primitive.ObjectID]models.WorkOrder{},
		subscribers: map[int]*memSubscriber{},
	}
}

func (s *MemoryStore) InsertSubmission(ctx context.Context, source models.Source, sub *models.Submission) (primitive.ObjectID, error) {
	s.mu.Lock()
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	s.submissions[source][sub.ID] = *sub
	s.mu.Unlock()

	s.publish(Event{Collection: string(source), Type: "insert", ID: sub.ID.Hex(), Doc: toRawDoc(sub)})
	return sub.ID, nil
}

func (s *MemoryStore) GetSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[source][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (s *MemoryStore) ListSubmissions(ctx context.Context, source models.Source) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	subs := make([]models.Submission, 0, len(s.submissions[source]))
	for _, sub := range s.submissions[source] {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].CreatedAt.After(subs[j].CreatedAt) })
	return subs, nil
}

func (s *MemoryStore) DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error {
	s.mu.Lock()
	if _, ok := s.submissions[source][id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.submissions[source], id)
	s.mu.Unlock()

	s.publish(Event{Collection: string(source), Type: "delete", ID: id.Hex()})
	return nil
}

func (s *MemoryStore) CountSubmissions(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.submissions[models.SourceRawSubmissions])), nil
}

func (s *MemoryStore) GetIssue(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issue, ok := s.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &issue, nil
}

func (s *MemoryStore) ListIssues(ctx context.Context) ([]models.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issues := make([]models.Issue, 0, len(s.issues))
	for _, issue := range s.issues {
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].CreatedAt.After(issues[j].CreatedAt) })
	return issues, nil
}

func (s *MemoryStore) GetWorkOrder(ctx context.Context, id primitive.ObjectID) (*models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

func (s *MemoryStore) ListWorkOrders(ctx context.Context, team string, status models.WorkOrderStatus) ([]models.WorkOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.WorkOrder{}
	for _, order := range s.orders {
		if team != "" && order.AssignedTeam != team {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryStore) SetWorkOrderProof(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !order.Status.ProofEligible() {
		s.mu.Unlock()
		return ErrNotEligible
	}
	order.Status = models.OrderPendingAdminApproval
	order.CompletionImageURL = imageURL
	s.orders[id] = order
	s.mu.Unlock()

	s.publish(Event{Collection: collWorkOrders, Type: "update", ID: id.Hex(), Doc: toRawDoc(&order)})
	return nil
}

func (s *MemoryStore) ListRawDocs(ctx context.Context, collection string) ([]bson.M, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := []bson.M{}
	switch collection {
	case string(models.SourceRawSubmissions), string(models.SourcePredictedIssues):
		for _, sub := range s.submissions[models.Source(collection)] {
			docs = append(docs, toRawDoc(&sub))
		}
	case collIssues:
		for _, issue := range s.issues {
			docs = append(docs, toRawDoc(&issue))
		}
	case collWorkOrders:
		for _, order := range s.orders {
			docs = append(docs, toRawDoc(&order))
		}
	}
	return docs, nil
}

// WithTransaction holds the store lock for the duration of fn. Writes are
// applied eagerly with recorded undo steps; on error the undo steps run in
// reverse and no events are published.
func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	tx := &memoryTx{store: s}
	err := fn(ctx, tx)
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	for _, ev := range tx.events {
		s.publish(ev)
	}
	return nil
}

type memoryTx struct {
	store  *MemoryStore
	undo   []func()
	events []Event
}

func (t *memoryTx) InsertIssue(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	id := issue.ID
	t.store.issues[id] = *issue
	t.undo = append(t.undo, func() { delete(t.store.issues, id) })
	t.events = append(t.events, Event{Collection: collIssues, Type: "insert", ID: id.Hex(), Doc: toRawDoc(issue)})
	return nil
}

func (t *memoryTx) InsertWorkOrder(ctx context.Context, order *models.WorkOrder) error {
	if t.store.FailInsertWorkOrder != nil {
		return t.store.FailInsertWorkOrder
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	id := order.ID
	t.store.orders[id] = *order
	t.undo = append(t.undo, func() { delete(t.store.orders, id) })
	t.events = append(t.events, Event{Collection: collWorkOrders, Type: "insert", ID: id.Hex(), Doc: toRawDoc(order)})
	return nil
}

func (t *memoryTx) SetIssueWorkOrder(ctx context.Context, issueID, orderID primitive.ObjectID) error {
	issue, ok := t.store.issues[issueID]
	if !ok {
		return ErrNotFound
	}
	prev := issue
	issue.WorkOrderID = orderID
	t.store.issues[issueID] = issue
	t.undo = append(t.undo, func() { t.store.issues[issueID] = prev })
	t.events = append(t.events, Event{Collection: collIssues, Type: "update", ID: issueID.Hex(), Doc: toRawDoc(&issue)})
	return nil
}

func (t *memoryTx) SetIssueStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus) error {
	issue, ok := t.store.issues[issueID]
	if !ok {
		return ErrNotFound
	}
	prev := issue
	issue.Status = status
	t.store.issues[issueID] = issue
	t.undo = append(t.undo, func() { t.store.issues[issueID] = prev })
	t.events = append(t.events, Event{Collection: collIssues, Type: "update", ID: issueID.Hex(), Doc: toRawDoc(&issue)})
	return nil
}

func (t *memoryTx) SetWorkOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.WorkOrderStatus) error {
	order, ok := t.store.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	prev := order
	order.Status = status
	t.store.orders[orderID] = order
	t.undo = append(t.undo, func() { t.store.orders[orderID] = prev })
	t.events = append(t.events, Event{Collection: collWorkOrders, Type: "update", ID: orderID.Hex(), Doc: toRawDoc(&order)})
	return nil
}

func (t *memoryTx) DeleteSubmission(ctx context.Context, source models.Source, id primitive.ObjectID) error {
	sub, ok := t.store.submissions[source][id]
	if !ok {
		return ErrNotFound
	}
	delete(t.store.submissions[source], id)
	t.undo = append(t.undo, func() { t.store.submissions[source][id] = sub })
	t.events = append(t.events, Event{Collection: string(source), Type: "delete", ID: id.Hex()})
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, collections []string) (<-chan Event, func(), error) {
	sub := &memSubscriber{
		ch:          make(chan Event, 32),
		collections: make(map[string]bool, len(collections)),
	}
	for _, name := range collections {
		sub.collections[name] = true
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = sub
	s.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(sub.ch)
		})
	}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			unsubscribe()
		}()
	}

	return sub.ch, unsubscribe, nil
}

func (s *MemoryStore) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscribers {
		if !sub.collections[ev.Collection] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// slow subscriber, drop
		}
	}
}

func toRawDoc(v interface{}) bson.M {
	data, err := bson.Marshal(v)
	if err != nil {
		return bson.M{}
	}
	doc := bson.M{}
	if err := bson.Unmarshal(data, &doc); err != nil {
		return bson.M{}
	}
	return doc
}
