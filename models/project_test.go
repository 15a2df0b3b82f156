package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClampProgress(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{42, 42},
		{100, 100},
		{250, 100},
	}
	for _, c := range cases {
		if got := ClampProgress(c.in); got != c.want {
			t.Fatalf("ClampProgress(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCanAccess(t *testing.T) {
	owner := primitive.NewObjectID()
	member := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	project := Project{Owner: owner, Members: []primitive.ObjectID{member}}

	if !project.CanAccess(owner) {
		t.Fatal("owner should have access")
	}
	if !project.CanAccess(member) {
		t.Fatal("member should have access")
	}
	if project.CanAccess(stranger) {
		t.Fatal("stranger should not have access")
	}
}

func TestValidProjectStatus(t *testing.T) {
	if !ValidProjectStatus(ProjectOnTrack) {
		t.Fatal("expected on-track to be valid")
	}
	if ValidProjectStatus("cancelled") {
		t.Fatal("expected unknown status to be invalid")
	}
}
