package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/events"
	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
)

// memDB is an in-memory stand-in for MySQL shared by the fake stores.
type memDB struct {
	mu            sync.Mutex
	seq           int64
	users         map[int64]*models.User
	admins        map[int64]*models.Admin
	products      map[int64]*models.Product
	cart          map[int64]*models.CartItem
	wishlist      map[int64]*models.WishlistItem
	orders        map[int64]*models.Order
	messages      map[int64]*models.Message
	notifications map[int64]*models.Notification
}

func newMemDB() *memDB {
	return &memDB{
		users:         map[int64]*models.User{},
		admins:        map[int64]*models.Admin{},
		products:      map[int64]*models.Product{},
		cart:          map[int64]*models.CartItem{},
		wishlist:      map[int64]*models.WishlistItem{},
		orders:        map[int64]*models.Order{},
		messages:      map[int64]*models.Message{},
		notifications: map[int64]*models.Notification{},
	}
}

func (db *memDB) next() int64 {
	db.seq++
	return db.seq
}

func (db *memDB) addProduct(sellerID int64, name, category string, price int64, status models.ProductStatus) *models.Product {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &models.Product{
		ID:        db.next(),
		SellerID:  sellerID,
		Name:      name,
		Category:  category,
		Condition: "used",
		Price:     decimal.NewFromInt(price),
		Status:    status,
		CreatedAt: time.Now().Add(time.Duration(db.seq) * time.Millisecond),
	}
	db.products[p.ID] = p
	return p
}

type fakeUsers struct{ *memDB }

func (f fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if other.Email == u.Email && other.Role == u.Role {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = f.next()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) GetByEmailAndRole(_ context.Context, email, role string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeUsers) UsernameTaken(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeUsers) UpdateProfile(_ context.Context, id int64, p repository.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.Address != nil {
		u.Address = p.Address
	}
	return nil
}

func (f fakeUsers) ListBuyers(context.Context) ([]models.BuyerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.BuyerSummary{}
	for _, u := range f.users {
		if u.Role == models.RoleBuyer {
			out = append(out, models.BuyerSummary{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out, nil
}

func (f fakeUsers) ListSellers(context.Context) ([]models.SellerSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.SellerSummary{}
	for _, u := range f.users {
		if u.Role != models.RoleSeller {
			continue
		}
		s := models.SellerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		for _, p := range f.products {
			if p.SellerID == u.ID {
				s.ProductCount++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (f fakeUsers) DeleteCascade(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	for pid, p := range f.products {
		if p.SellerID == id {
			delete(f.products, pid)
		}
	}
	for cid, c := range f.cart {
		if c.UserID == id {
			delete(f.cart, cid)
		}
	}
	delete(f.users, id)
	return nil
}

type fakeProducts struct {
	*memDB
	listErr error
}

func (f fakeProducts) Create(_ context.Context, p *models.Product, filenames []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.next()
	p.CreatedAt = time.Now()
	for _, name := range filenames {
		p.Images = append(p.Images, models.ProductImage{ID: f.next(), ProductID: p.ID, Filename: name})
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f fakeProducts) GetByID(_ context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeProducts) List(_ context.Context, flt repository.ProductFilter) ([]models.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		switch {
		case flt.Category != "" && p.Category != flt.Category,
			flt.Status != "" && p.Status != flt.Status,
			flt.SellerID != 0 && p.SellerID != flt.SellerID,
			flt.ExcludeID != 0 && p.ID == flt.ExcludeID,
			flt.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(flt.Search)):
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if flt.Limit > 0 && uint64(len(out)) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f fakeProducts) SetStatus(_ context.Context, id int64, status models.ProductStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	return nil
}

func (f fakeProducts) AdvanceStatus(_ context.Context, id int64, from, to models.ProductStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.Status != from {
		return repository.ErrConflict
	}
	p.Status = to
	return nil
}

func (f fakeProducts) DeleteCascade(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	for cid, c := range f.cart {
		if c.ProductID == id {
			delete(f.cart, cid)
		}
	}
	delete(f.products, id)
	return nil
}

type fakeCart struct{ *memDB }

func (f fakeCart) Add(_ context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cart {
		if c.UserID == userID && c.ProductID == productID {
			c.Quantity += quantity
			cp := *c
			return &cp, nil
		}
	}
	c := &models.CartItem{ID: f.next(), UserID: userID, ProductID: productID, Quantity: quantity, CreatedAt: time.Now()}
	f.cart[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f fakeCart) ListByUser(_ context.Context, userID int64) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CartItem{}
	for _, c := range f.cart {
		if c.UserID == userID {
			cp := *c
			if p, ok := f.products[c.ProductID]; ok {
				pc := *p
				cp.Product = &pc
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeCart) GetForUser(_ context.Context, id, userID int64) (*models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cart[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeCart) SetQuantity(_ context.Context, id, userID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cart[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	c.Quantity = quantity
	return nil
}

func (f fakeCart) Delete(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cart[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.cart, id)
	return nil
}

type fakeWishlist struct{ *memDB }

func (f fakeWishlist) Add(_ context.Context, userID, productID int64) (*models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.wishlist {
		if w.UserID == userID && w.ProductID == productID {
			cp := *w
			return &cp, nil
		}
	}
	w := &models.WishlistItem{ID: f.next(), UserID: userID, ProductID: productID}
	f.wishlist[w.ID] = w
	cp := *w
	return &cp, nil
}

func (f fakeWishlist) ListByUser(_ context.Context, userID int64) ([]models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.WishlistItem{}
	for _, w := range f.wishlist {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f fakeWishlist) Delete(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wishlist[id]
	if !ok || w.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.wishlist, id)
	return nil
}

// fakeOrders mirrors the transactional placement of OrderRepo under one
// lock: validate every row, then write everything.
type fakeOrders struct{ *memDB }

func (f fakeOrders) Place(_ context.Context, buyerID int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []*models.CartItem
	for _, c := range f.cart {
		if c.UserID == buyerID {
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return nil, repository.ErrEmptyCart
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	total := decimal.Zero
	for _, c := range rows {
		p := f.products[c.ProductID]
		if p.Status != models.StatusActive {
			return nil, &repository.ProductUnavailableError{ProductID: p.ID, Name: p.Name}
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(c.Quantity))))
	}

	o := &models.Order{ID: f.next(), BuyerID: buyerID, TotalAmount: total, CreatedAt: time.Now()}
	for _, c := range rows {
		p := f.products[c.ProductID]
		o.Items = append(o.Items, models.OrderItem{
			ID:        f.next(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Quantity:  c.Quantity,
			Price:     p.Price,
			Product:   &models.Product{ID: p.ID, Name: p.Name, SellerID: p.SellerID},
		})
		p.Status = models.StatusSold
		delete(f.cart, c.ID)
	}
	f.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (f fakeOrders) ListByBuyer(_ context.Context, buyerID int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f fakeOrders) GetByID(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

type fakeMessages struct{ *memDB }

func (f fakeMessages) Create(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.next()
	m.CreatedAt = time.Now()
	cp := *m
	f.messages[m.ID] = &cp
	return nil
}

func (f fakeMessages) GetByID(_ context.Context, id int64) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f fakeMessages) ListForUser(_ context.Context, userID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func sameProduct(a, b *int64) bool {
	if b == nil {
		return true
	}
	return a != nil && *a == *b
}

func (f fakeMessages) Conversation(_ context.Context, a, b int64, productID *int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Message{}
	for _, m := range f.messages {
		pair := (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
		if pair && sameProduct(m.ProductID, productID) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeMessages) MarkConversationRead(_ context.Context, from, to int64, productID *int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.messages {
		if m.SenderID == from && m.ReceiverID == to && !m.IsRead && sameProduct(m.ProductID, productID) {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f fakeMessages) MarkRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.IsRead = true
	return nil
}

type fakeNotifications struct{ *memDB }

func (f fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.next()
	n.CreatedAt = time.Now()
	cp := *n
	f.notifications[n.ID] = &cp
	return nil
}

func (f fakeNotifications) ListAll(context.Context) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.notifications {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeNotifications) ListForUser(_ context.Context, userID int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.UserID != nil && *n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f fakeNotifications) MarkRead(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || n.UserID == nil || *n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (f fakeNotifications) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.notifications, id)
	return nil
}

type fakeAdmins struct {
	*memDB
	revenue map[int]decimal.Decimal
}

func (f fakeAdmins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeAdmins) First(context.Context) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first *models.Admin
	for _, a := range f.admins {
		if first == nil || a.ID < first.ID {
			first = a
		}
	}
	if first == nil {
		return nil, repository.ErrNotFound
	}
	cp := *first
	return &cp, nil
}

func (f fakeAdmins) Create(_ context.Context, a *models.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.next()
	cp := *a
	f.admins[a.ID] = &cp
	return nil
}

func (f fakeAdmins) Dashboard(context.Context) (*models.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.DashboardStats{TotalProducts: len(f.products), TotalOrders: len(f.orders)}
	return s, nil
}

func (f fakeAdmins) SoldItems(context.Context) ([]models.SoldItem, error) {
	return []models.SoldItem{}, nil
}

func (f fakeAdmins) RevenueByMonth(context.Context, int) (map[int]decimal.Decimal, error) {
	return f.revenue, nil
}

// emitted is one Notifier.Emit call.
type emitted struct {
	userID int64
	event  string
	data   interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	online map[int64]bool
	events []emitted
}

func newFakeNotifier(online ...int64) *fakeNotifier {
	n := &fakeNotifier{online: map[int64]bool{}}
	for _, id := range online {
		n.online[id] = true
	}
	return n
}

func (n *fakeNotifier) IsOnline(userID int64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online[userID]
}

func (n *fakeNotifier) Emit(userID int64, event string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, emitted{userID, event, data})
}

func (n *fakeNotifier) find(event string) []emitted {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []emitted
	for _, e := range n.events {
		if e.event == event {
			out = append(out, e)
		}
	}
	return out
}

type fakePublisher struct {
	mu  sync.Mutex
	got []events.OrderPlaced
	err error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, ev events.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev)
	return p.err
}

type fixedAdvisor struct {
	text       string
	ok         bool
	calls      int
	lastPrompt string
}

func (a *fixedAdvisor) Advise(_ context.Context, prompt string) (string, bool) {
	a.calls++
	a.lastPrompt = prompt
	return a.text, a.ok
}

type mapCache map[string]string

func (c mapCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := c[key]
	return v, ok
}

func (c mapCache) Set(_ context.Context, key, value string) { c[key] = value }
