package commands

import "encoding/json"

func getFavourites(repo Repository, raw json.RawMessage) (any, error) {
	if err := decode("get_favourites", raw, &struct{}{}); err != nil {
		return nil, err
	}
	return repo.ListFavourites()
}

func createFavourite(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		Name            *string `json:"name"`
		DurationSeconds *int64  `json:"duration_seconds"`
	}
	if err := decode("create_favourite", raw, &args); err != nil {
		return nil, err
	}
	if args.Name == nil {
		return nil, missing("create_favourite", "name")
	}
	if args.DurationSeconds == nil {
		return nil, missing("create_favourite", "duration_seconds")
	}
	return repo.CreateFavourite(*args.Name, *args.DurationSeconds)
}

func deleteFavourite(repo Repository, raw json.RawMessage) (any, error) {
	var args struct {
		ID *int64 `json:"id"`
	}
	if err := decode("delete_favourite", raw, &args); err != nil {
		return nil, err
	}
	if args.ID == nil {
		return nil, missing("delete_favourite", "id")
	}
	return nil, repo.DeleteFavourite(*args.ID)
}
