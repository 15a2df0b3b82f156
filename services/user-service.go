package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"projecthub/backend/logging"
	"projecthub/backend/models"
)

type UserService struct {
	UserCollection *mongo.Collection
	JWTService     *JWTService
}

func NewUserService(userCollection *mongo.Collection, jwtService *JWTService) *UserService {
	return &UserService{
		UserCollection: userCollection,
		JWTService:     jwtService,
	}
}

// Register creates a user with a bcrypt-hashed password. The role is
// always forced to "member"; client-supplied roles are ignored.
func (s *UserService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		return models.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %v", err)
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      html.EscapeString(name),
		Email:     email,
		Password:  string(hashed),
		Role:      models.RoleMember,
		Projects:  []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to save user: %v", err)
	}

	logging.Logger.Infof("User registered: %s", user.Email)
	return user, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	userID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid user ID format", ErrValidation)
	}

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return models.User{}, ErrNotFound
	}

	user.Password = ""
	return user, nil
}

// FindUserByID satisfies the middleware's user lookup.
func (s *UserService) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return s.GetUserByID(ctx, id)
}

// UpdateEmail changes the user's email and returns the updated record.
// The caller is expected to reissue a token with the new claims.
func (s *UserService) UpdateEmail(ctx context.Context, userID primitive.ObjectID, newEmail string) (models.User, error) {
	if newEmail == "" {
		return models.User{}, fmt.Errorf("%w: new email is required", ErrValidation)
	}
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": newEmail}).Decode(&existing); err == nil {
		return models.User{}, ErrEmailTaken
	}

	res := s.UserCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"email": newEmail}},
	)
	var user models.User
	if err := res.Decode(&user); err != nil {
		// A concurrent writer can still take the email between the
		// precheck and the update; the unique index reports it here.
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, ErrNotFound
	}

	user.Email = newEmail
	user.Password = ""
	return user, nil
}

// UpdateProfile updates name and/or email on the user record.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, email string) (models.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = html.EscapeString(name)
	}
	if email != "" {
		set["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	if len(set) == 0 {
		return models.User{}, fmt.Errorf("%w: nothing to update", ErrValidation)
	}

	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to update profile: %v", err)
	}

	return s.GetUserByID(ctx, userID.Hex())
}

// GetAllMembers returns every user as a display record, sorted by name.
// Used by the team management screens.
func (s *UserService) GetAllMembers(ctx context.Context) ([]models.PublicUser, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := s.UserCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %v", err)
	}
	defer cursor.Close(ctx)

	var members []models.PublicUser
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to parse members: %v", err)
	}

	return members, nil
}
