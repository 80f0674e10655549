package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
	"zhiyu.io/assistantportal/internal/model"
)

// memStore mimics the relational store for service tests: unique indexes
// return gorm.ErrDuplicatedKey, missing rows return gorm.ErrRecordNotFound,
// and deletes cascade over the association tables the way the schema does.
type memStore struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	roles      map[uint]*model.Role
	assistants map[uint]*model.Assistant
	userRoles  map[uint]map[uint]struct{} // user id -> role ids
	roleGrants map[uint]map[uint]struct{} // role id -> assistant ids
	seq        uint
}

var errForeignKey = errors.New("insert or update violates foreign key constraint")

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uint]*model.User),
		roles:      make(map[uint]*model.Role),
		assistants: make(map[uint]*model.Assistant),
		userRoles:  make(map[uint]map[uint]struct{}),
		roleGrants: make(map[uint]map[uint]struct{}),
	}
}

func (s *memStore) nextID() uint {
	s.seq++
	return s.seq
}

func cloneUser(u *model.User) *model.User {
	clone := *u
	clone.Roles = append([]model.Role(nil), u.Roles...)
	return &clone
}

func cloneRole(r *model.Role) *model.Role {
	clone := *r
	return &clone
}

func cloneAssistant(a *model.Assistant) *model.Assistant {
	clone := *a
	return &clone
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --- user repository stub ---

type stubUserRepo struct {
	store *memStore
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User, roleIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	for _, roleID := range roleIDs {
		if _, ok := s.roles[roleID]; !ok {
			return errForeignKey
		}
	}

	user.ID = s.nextID()
	user.CreatedAt = time.Now()
	s.users[user.ID] = cloneUser(user)

	links := make(map[uint]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		links[roleID] = struct{}{}
	}
	s.userRoles[user.ID] = links

	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	out := cloneUser(user)
	out.Roles = s.rolesOfLocked(id)
	return out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, user := range s.users {
		if user.Username == username {
			out := cloneUser(user)
			out.Roles = s.rolesOfLocked(id)
			return out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByUsernameAndEmail(_ context.Context, username, email string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username && user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *model.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, existing := range s.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.users, id)
	delete(s.userRoles, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, page, perPage int) ([]model.User, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.User, 0, len(s.users))
	for id, user := range s.users {
		out := cloneUser(user)
		out.Roles = s.rolesOfLocked(id)
		all = append(all, *out)
	}
	// Newest first, standing in for created_at DESC.
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	return pageOf(all, page, perPage), int64(len(all)), nil
}

func (r *stubUserRepo) GetRoles(_ context.Context, userID uint) ([]model.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rolesOfLocked(userID), nil
}

func (r *stubUserRepo) ReplaceRoles(_ context.Context, userID uint, roleIDs []uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, roleID := range roleIDs {
		if _, ok := s.roles[roleID]; !ok {
			return errForeignKey
		}
	}

	links := make(map[uint]struct{}, len(roleIDs))
	for _, roleID := range roleIDs {
		links[roleID] = struct{}{}
	}
	s.userRoles[userID] = links
	return nil
}

func (s *memStore) rolesOfLocked(userID uint) []model.Role {
	var roles []model.Role
	for _, roleID := range sortedIDs(s.userRoles[userID]) {
		if role, ok := s.roles[roleID]; ok {
			roles = append(roles, *cloneRole(role))
		}
	}
	return roles
}

// --- role repository stub ---

type stubRoleRepo struct {
	store *memStore
}

func (r *stubRoleRepo) Create(_ context.Context, role *model.Role) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}

	role.ID = s.nextID()
	role.CreatedAt = time.Now()
	s.roles[role.ID] = cloneRole(role)
	s.roleGrants[role.ID] = make(map[uint]struct{})
	return nil
}

func (r *stubRoleRepo) FindByID(_ context.Context, id uint) (*model.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneRole(role), nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range s.roles {
		if role.Name == name {
			return cloneRole(role), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Role, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var roles []model.Role
	for _, id := range ids {
		if role, ok := s.roles[id]; ok {
			roles = append(roles, *cloneRole(role))
		}
	}
	return roles, nil
}

func (r *stubRoleRepo) Update(_ context.Context, role *model.Role) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, existing := range s.roles {
		if id != role.ID && existing.Name == role.Name {
			return gorm.ErrDuplicatedKey
		}
	}

	s.roles[role.ID] = cloneRole(role)
	return nil
}

func (r *stubRoleRepo) Delete(_ context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.roles, id)
	delete(s.roleGrants, id)
	for _, links := range s.userRoles {
		delete(links, id)
	}
	return nil
}

func (r *stubRoleRepo) List(_ context.Context, page, perPage int) ([]model.Role, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Role, 0, len(s.roles))
	for _, role := range s.roles {
		all = append(all, *cloneRole(role))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return pageOf(all, page, perPage), int64(len(all)), nil
}

func (r *stubRoleRepo) GrantedAssistantIDs(_ context.Context, roleID uint) ([]uint, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return sortedIDs(s.roleGrants[roleID]), nil
}

func (r *stubRoleRepo) Grant(_ context.Context, roleID, assistantID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[roleID]; !ok {
		return errForeignKey
	}
	if _, ok := s.assistants[assistantID]; !ok {
		return errForeignKey
	}

	s.roleGrants[roleID][assistantID] = struct{}{}
	return nil
}

func (r *stubRoleRepo) Revoke(_ context.Context, roleID, assistantID uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if grants, ok := s.roleGrants[roleID]; ok {
		delete(grants, assistantID)
	}
	return nil
}

// --- assistant repository stub ---

type stubAssistantRepo struct {
	store *memStore
}

func (r *stubAssistantRepo) Create(_ context.Context, assistant *model.Assistant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assistants {
		if existing.AssistantID == assistant.AssistantID {
			return gorm.ErrDuplicatedKey
		}
	}

	assistant.ID = s.nextID()
	assistant.CreatedAt = time.Now()
	s.assistants[assistant.ID] = cloneAssistant(assistant)
	return nil
}

func (r *stubAssistantRepo) FindByID(_ context.Context, id uint) (*model.Assistant, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	assistant, ok := s.assistants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneAssistant(assistant), nil
}

func (r *stubAssistantRepo) FindByAssistantID(_ context.Context, assistantID string) (*model.Assistant, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assistant := range s.assistants {
		if assistant.AssistantID == assistantID {
			return cloneAssistant(assistant), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAssistantRepo) Update(_ context.Context, assistant *model.Assistant) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assistants[assistant.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, existing := range s.assistants {
		if id != assistant.ID && existing.AssistantID == assistant.AssistantID {
			return gorm.ErrDuplicatedKey
		}
	}

	s.assistants[assistant.ID] = cloneAssistant(assistant)
	return nil
}

func (r *stubAssistantRepo) Delete(_ context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assistants[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.assistants, id)
	for _, grants := range s.roleGrants {
		delete(grants, id)
	}
	return nil
}

func (r *stubAssistantRepo) List(_ context.Context, page, perPage int) ([]model.Assistant, int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Assistant, 0, len(s.assistants))
	for _, assistant := range s.assistants {
		all = append(all, *cloneAssistant(assistant))
	}
	// Newest first, standing in for created_at DESC.
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	return pageOf(all, page, perPage), int64(len(all)), nil
}

func (r *stubAssistantRepo) FindGrantedByUserID(_ context.Context, userID uint) ([]model.Assistant, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var granted []model.Assistant
	for roleID := range s.userRoles[userID] {
		for assistantID := range s.roleGrants[roleID] {
			if assistant, ok := s.assistants[assistantID]; ok {
				granted = append(granted, *cloneAssistant(assistant))
			}
		}
	}
	return granted, nil
}

func pageOf[T any](all []T, page, perPage int) []T {
	start := (page - 1) * perPage
	if start >= len(all) {
		return []T{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
