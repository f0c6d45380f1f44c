package services

import (
	"context"
	"sync"

	"towerdb/internal/events"
	. "towerdb/internal/models"
	"towerdb/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTowerRepository struct {
	towers      map[int]*Tower
	nextID      int
	cleared     []*int
	deleteCalls int
}

func newFakeTowerRepository() *fakeTowerRepository {
	return &fakeTowerRepository{towers: map[int]*Tower{}, nextID: 1}
}

func (r *fakeTowerRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter repositories.TowerFilter,
) ([]*Tower, error) {
	var towers []*Tower
	for _, tower := range r.towers {
		if filter.District == "" || tower.District == filter.District {
			towers = append(towers, tower)
		}
	}
	return towers, nil
}

func (r *fakeTowerRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Tower, error) {
	tower, ok := r.towers[id]
	if !ok {
		return nil, repositories.ErrTowerNotFound
	}
	return tower, nil
}

func (r *fakeTowerRepository) Create(ctx context.Context, tx *gorm.DB, tower *Tower) error {
	for _, existing := range r.towers {
		if existing.Place == tower.Place && existing.Dedication == tower.Dedication {
			return repositories.ErrDuplicateTower
		}
	}
	tower.ID = r.nextID
	r.nextID++
	r.towers[tower.ID] = tower
	return nil
}

func (r *fakeTowerRepository) Update(ctx context.Context, tx *gorm.DB, tower *Tower) error {
	if _, ok := r.towers[tower.ID]; !ok {
		return repositories.ErrTowerNotFound
	}
	r.towers[tower.ID] = tower
	return nil
}

func (r *fakeTowerRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	if _, ok := r.towers[id]; !ok {
		return repositories.ErrTowerNotFound
	}
	delete(r.towers, id)
	return nil
}

func (r *fakeTowerRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	r.deleteCalls++
	n := int64(len(r.towers))
	r.towers = map[int]*Tower{}
	return n, nil
}

func (r *fakeTowerRepository) ClearCache(ctx context.Context, id *int) error {
	r.cleared = append(r.cleared, id)
	return nil
}

type fakeContactRepository struct {
	contacts map[int]*Contact
	nextID   int
	maps     []*ContactMap
}

func newFakeContactRepository() *fakeContactRepository {
	return &fakeContactRepository{contacts: map[int]*Contact{}, nextID: 1}
}

func (r *fakeContactRepository) List(ctx context.Context, tx *gorm.DB) ([]*Contact, error) {
	var contacts []*Contact
	for _, contact := range r.contacts {
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (r *fakeContactRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Contact, error) {
	contact, ok := r.contacts[id]
	if !ok {
		return nil, repositories.ErrContactNotFound
	}
	return contact, nil
}

func (r *fakeContactRepository) Create(ctx context.Context, tx *gorm.DB, contact *Contact) error {
	contact.ID = r.nextID
	r.nextID++
	r.contacts[contact.ID] = contact
	return nil
}

func (r *fakeContactRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	if _, ok := r.contacts[id]; !ok {
		return repositories.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepository) DeleteAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	n := int64(len(r.contacts))
	r.contacts = map[int]*Contact{}
	return n, nil
}

func (r *fakeContactRepository) AddMethod(ctx context.Context, tx *gorm.DB, method *ContactMethod) error {
	contact, ok := r.contacts[method.ContactID]
	if !ok {
		return repositories.ErrContactNotFound
	}
	for _, existing := range contact.Methods {
		if existing.ContactType == method.ContactType && existing.ContactValue == method.ContactValue {
			return repositories.ErrDuplicateContactMethod
		}
	}
	contact.Methods = append(contact.Methods, *method)
	return nil
}

func (r *fakeContactRepository) AddTowerContact(ctx context.Context, tx *gorm.DB, contactMap *ContactMap) error {
	r.maps = append(r.maps, contactMap)
	return nil
}

type fakeImportRunRepository struct {
	runs    []*ImportRun
	updates int
}

func (r *fakeImportRunRepository) Create(ctx context.Context, tx *gorm.DB, run *ImportRun) error {
	run.ID = uuid.New()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeImportRunRepository) Update(ctx context.Context, tx *gorm.DB, run *ImportRun) error {
	r.updates++
	return nil
}

func (r *fakeImportRunRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ImportRun, error) {
	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, repositories.ErrImportRunNotFound
}

func (r *fakeImportRunRepository) GetRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*ImportRun, error) {
	return r.runs, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(channel events.Channel, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	event.Channel = channel
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.MessageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []events.MessageType
	for _, event := range p.events {
		types = append(types, event.Type)
	}
	return types
}

type staticRows struct {
	rows []SheetRow
	err  error
}

func (s staticRows) Source() string { return "test://sheet" }

func (s staticRows) Fetch(ctx context.Context) ([]SheetRow, error) {
	return s.rows, s.err
}
