package application

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adminsuite/user-service/internal/domain/entity"
	"github.com/adminsuite/user-service/internal/domain/repository"
)

// Password bounds. The max is enforced at the schema level; the min lives
// here so a short password gets its specific code.
const passwordMinLength = 8

// RuleResult is the outcome of a single business rule check.
type RuleResult struct {
	Valid   bool
	Code    string
	Message string
}

func ruleOK() RuleResult {
	return RuleResult{Valid: true}
}

func ruleFail(code, message string) RuleResult {
	return RuleResult{Valid: false, Code: code, Message: message}
}

// EmailMustBeUnique fails with EMAIL_EXISTS when any user already holds the
// email (case-insensitive).
func EmailMustBeUnique(ctx context.Context, repo repository.UserRepository, email string) (RuleResult, error) {
	return emailUnique(ctx, repo, email, "")
}

// EmailMustBeUniqueExcluding is the update variant: the user being updated
// does not count as a conflict.
func EmailMustBeUniqueExcluding(ctx context.Context, repo repository.UserRepository, email, excludeID string) (RuleResult, error) {
	return emailUnique(ctx, repo, email, excludeID)
}

func emailUnique(ctx context.Context, repo repository.UserRepository, email, excludeID string) (RuleResult, error) {
	exists, err := repo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return RuleResult{}, err
	}
	if exists {
		return ruleFail(CodeEmailExists, "email address is already in use"), nil
	}
	return ruleOK(), nil
}

func PasswordMustMeetMinLength(password string) RuleResult {
	if len(password) < passwordMinLength {
		return ruleFail(CodePasswordTooShort, "password must be at least 8 characters")
	}
	return ruleOK()
}

func PasswordMustHaveUppercase(password string) RuleResult {
	if !strings.ContainsFunc(password, func(r rune) bool { return 'A' <= r && r <= 'Z' }) {
		return ruleFail(CodePasswordNoUppercase, "password must contain an uppercase letter")
	}
	return ruleOK()
}

func PasswordMustHaveLowercase(password string) RuleResult {
	if !strings.ContainsFunc(password, func(r rune) bool { return 'a' <= r && r <= 'z' }) {
		return ruleFail(CodePasswordNoLowercase, "password must contain a lowercase letter")
	}
	return ruleOK()
}

func PasswordMustHaveNumber(password string) RuleResult {
	if !strings.ContainsFunc(password, func(r rune) bool { return '0' <= r && r <= '9' }) {
		return ruleFail(CodePasswordNoNumber, "password must contain a digit")
	}
	return ruleOK()
}

// ValidatePassword runs the composition rules in fixed order and stops at
// the first failure.
func ValidatePassword(password string) RuleResult {
	rules := []func(string) RuleResult{
		PasswordMustMeetMinLength,
		PasswordMustHaveUppercase,
		PasswordMustHaveLowercase,
		PasswordMustHaveNumber,
	}
	for _, rule := range rules {
		if res := rule(password); !res.Valid {
			return res
		}
	}
	return ruleOK()
}

// UserMustExist fails with USER_NOT_FOUND when no user has the id.
func UserMustExist(ctx context.Context, repo repository.UserRepository, id string) (RuleResult, error) {
	u, err := repo.FindByID(ctx, id)
	if err != nil {
		return RuleResult{}, err
	}
	if u == nil {
		return ruleFail(CodeUserNotFound, "user not found"), nil
	}
	return ruleOK(), nil
}

// CannotDeleteSelf rejects a user deleting their own account, regardless of
// role.
func CannotDeleteSelf(cmd DeleteUserCommand) RuleResult {
	if cmd.ID == cmd.ActorID {
		return ruleFail(CodeCannotDeleteSelf, "you cannot delete your own account")
	}
	return ruleOK()
}

// CannotDeleteAdmin fetches target and actor concurrently and rejects the
// deletion of an admin by a non-admin. It also reports whichever of the two
// records is missing. Returns the target for follow-up work on success.
func CannotDeleteAdmin(ctx context.Context, repo repository.UserRepository, cmd DeleteUserCommand) (*entity.User, RuleResult, error) {
	var target, actor *entity.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		target, err = repo.FindByID(gctx, cmd.ID)
		return err
	})
	g.Go(func() error {
		var err error
		actor, err = repo.FindByID(gctx, cmd.ActorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, RuleResult{}, err
	}

	if target == nil {
		return nil, ruleFail(CodeUserNotFound, "user to delete not found"), nil
	}
	if actor == nil {
		return nil, ruleFail(CodeActorNotFound, "acting user not found"), nil
	}
	if target.Role == entity.RoleAdmin && actor.Role != entity.RoleAdmin {
		return nil, ruleFail(CodeCannotDeleteAdmin, "only admins may delete admin users"), nil
	}
	return target, ruleOK(), nil
}

// ValidateCreateUser runs the create rules: email uniqueness, then password
// composition. Short-circuits on the first failure.
func ValidateCreateUser(ctx context.Context, repo repository.UserRepository, cmd CreateUserCommand) (RuleResult, error) {
	res, err := EmailMustBeUnique(ctx, repo, cmd.Email)
	if err != nil || !res.Valid {
		return res, err
	}
	if res := ValidatePassword(cmd.Password); !res.Valid {
		return res, nil
	}
	return ruleOK(), nil
}

// ValidateUpdateUser checks the target exists and, only when the email is
// being changed, that it stays unique excluding the target itself.
func ValidateUpdateUser(ctx context.Context, repo repository.UserRepository, cmd UpdateUserCommand) (RuleResult, error) {
	res, err := UserMustExist(ctx, repo, cmd.ID)
	if err != nil || !res.Valid {
		return res, err
	}
	if cmd.Email != nil {
		res, err := EmailMustBeUniqueExcluding(ctx, repo, *cmd.Email, cmd.ID)
		if err != nil || !res.Valid {
			return res, err
		}
	}
	return ruleOK(), nil
}

// ValidateDeleteUser runs the delete rules and returns the target on success.
func ValidateDeleteUser(ctx context.Context, repo repository.UserRepository, cmd DeleteUserCommand) (*entity.User, RuleResult, error) {
	if res := CannotDeleteSelf(cmd); !res.Valid {
		return nil, res, nil
	}
	return CannotDeleteAdmin(ctx, repo, cmd)
}
