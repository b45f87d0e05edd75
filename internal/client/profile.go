package client

import (
	"context"
	"log"

	"parkledger/internal/entities"
)

// ProfileClient reads and writes the singleton profile record.
type ProfileClient struct {
	res *Resource[entities.UserProfile]
}

func NewProfileClient(api *API) *ProfileClient {
	return &ProfileClient{res: NewResource[entities.UserProfile](api, entities.ResourceProfile)}
}

func (c *ProfileClient) Get(ctx context.Context) (entities.UserProfile, error) {
	return c.res.Get(ctx, entities.DefaultProfileID)
}

// GetOrDefault returns the stored profile, or a default placeholder when the
// fetch fails, so the profile screen always has something to render.
func (c *ProfileClient) GetOrDefault(ctx context.Context) entities.UserProfile {
	p, err := c.Get(ctx)
	if err != nil {
		log.Printf("fetching profile: %v (serving default)", err)
		return entities.DefaultProfile()
	}
	return p
}

func (c *ProfileClient) Update(ctx context.Context, req entities.ProfileRequest) (entities.UserProfile, error) {
	return c.res.Update(ctx, entities.DefaultProfileID, req)
}
