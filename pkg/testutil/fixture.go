package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/internal/entity"
	"github.com/th3void/lotus-routine/internal/repository"
)

// Fixture users shared by domain tests. User1 owns Project1; User3 is an
// admin.
var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1"},
		Name:  "alice",
		Email: "alice@example.com",
		Role:  entity.RoleUser,
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Name:  "bob",
		Email: "bob@example.com",
		Role:  entity.RoleUser,
	}

	User3 = entity.User{
		Base:  entity.Base{ID: "user3"},
		Name:  "carol",
		Email: "carol@example.com",
		Role:  entity.RoleAdmin,
	}

	Project1 = entity.Project{
		Base:   entity.Base{ID: "project1"},
		UserID: "user1",
		Name:   "Deep Work",
		Color:  "#216e39",
	}
)

// MockContextWithFixtures returns a MockContext whose database already holds
// the fixture users and project.
func MockContextWithFixtures() context.Context {
	ctx := MockContext()

	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2, User3} {
		u := user
		if err := userRepo.Create(ctx, &u); err != nil {
			panic(err)
		}
	}

	projectRepo := repository.NewProjectRepository()
	p := Project1
	if err := projectRepo.Create(ctx, &p); err != nil {
		panic(err)
	}

	return ctx
}
