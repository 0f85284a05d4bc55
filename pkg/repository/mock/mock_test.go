package mock_test

import (
	"github.com/garnizeh/zelar/pkg/repository"
	"github.com/garnizeh/zelar/pkg/repository/mock"
)

var (
	_ repository.UserRepo     = (*mock.UserRepo)(nil)
	_ repository.GuardianRepo = (*mock.GuardianRepo)(nil)
	_ repository.ResidentRepo = (*mock.ResidentRepo)(nil)
	_ repository.ItemRepo     = (*mock.ItemRepo)(nil)
)
