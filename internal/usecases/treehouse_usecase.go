// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/abelzeko/treehouse/internal/entities"
	"github.com/abelzeko/treehouse/internal/repository"
)

const (
	newFriendGreeting = "New friend"
	drinkingAge       = 21
)

// DefaultVisitors is the list the treehouse starts with
func DefaultVisitors() []entities.Visitor {
	return []entities.Visitor{
		entities.NewVisitor("Bert", "Hello Bert, enjoy your treehouse.", entities.AcceptAction(), 45),
		entities.NewVisitor("steve", "Hi Steve. Your milk is in the fridge.",
			entities.AcceptWithNoteAction("Lactose-free milk is in the fridge"), 15),
		entities.NewVisitor("fred", "Wow, who invited Fred?", entities.RefuseAction(), 30),
	}
}

// CheckInResult is what the door prints for one name
type CheckInResult struct {
	Lines []string
	// Done is set when an empty name was given and the session should end
	Done bool
}

// TreehouseUseCase handles business logic related to the visitor list
type TreehouseUseCase struct {
	repo repository.VisitorRepository
}

// NewTreehouseUseCase creates a new treehouse use case
func NewTreehouseUseCase(repo repository.VisitorRepository) *TreehouseUseCase {
	return &TreehouseUseCase{repo: repo}
}

// NormalizeName trims surrounding whitespace and lowercases a typed name
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// SeedDefaultVisitors adds DefaultVisitors to the list in order
func (uc *TreehouseUseCase) SeedDefaultVisitors(ctx context.Context) error {
	visitors := DefaultVisitors()
	for _, v := range visitors {
		if _, err := uc.repo.AddVisitor(ctx, v); err != nil {
			return fmt.Errorf("failed to seed visitor list: %w", err)
		}
	}
	log.Printf("Seeded visitor list with %d visitors", len(visitors))
	return nil
}

// CheckIn looks the name up and decides what to tell the host.
// Unknown names are added to the list on probation.
func (uc *TreehouseUseCase) CheckIn(ctx context.Context, name string) (CheckInResult, error) {
	visitor, ok, err := uc.repo.FindVisitorByName(ctx, name)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("failed to check in %s: %w", name, err)
	}

	if ok {
		return CheckInResult{Lines: GreetVisitor(visitor)}, nil
	}

	if name == "" {
		return CheckInResult{Done: true}, nil
	}

	if _, err := uc.repo.AddVisitor(ctx, entities.NewVisitor(name, newFriendGreeting, entities.ProbationAction(), 0)); err != nil {
		return CheckInResult{}, fmt.Errorf("failed to add %s to the visitor list: %w", name, err)
	}
	return CheckInResult{Lines: []string{fmt.Sprintf("%s is not on the visitor list.", name)}}, nil
}

// Visitors returns the current visitor list
func (uc *TreehouseUseCase) Visitors(ctx context.Context) ([]entities.Visitor, error) {
	return uc.repo.ListVisitors(ctx)
}

// GreetVisitor returns the greeting followed by the message for the visitor's action
func GreetVisitor(v entities.Visitor) []string {
	lines := []string{v.Greeting}

	switch v.Action.Kind {
	case entities.Accept:
		lines = append(lines, fmt.Sprintf("Welcome to the tree house, %s", v.Name))
	case entities.AcceptWithNote:
		lines = append(lines,
			fmt.Sprintf("Welcome to the tree house, %s", v.Name),
			v.Action.Note,
		)
		if v.Age < drinkingAge {
			lines = append(lines, fmt.Sprintf("Do not serve alcohol to %s", v.Name))
		}
	case entities.Probation:
		lines = append(lines, fmt.Sprintf("%s is now a probationary member", v.Name))
	case entities.Refuse:
		lines = append(lines, fmt.Sprintf("Do not allow %s in!", v.Name))
	}

	return lines
}
