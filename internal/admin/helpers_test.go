package admin

import "Classifieds/internal/model"

func newUser(login string) *model.User {
	return &model.User{Login: login, Password: "hash"}
}
