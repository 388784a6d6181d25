package usecase

import (
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/domain/repository"
	"github.com/zulfalsa/danusan-x/internal/pkg/trackcode"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewPolicy,
	newCodeGenerator,
	newUserRepository,
	NewAuthUseCase,
	NewCatalogUseCase,
	NewCheckoutUseCase,
	NewProofUseCase,
	NewVerificationUseCase,
	NewFulfillmentUseCase,
	NewTrackingUseCase,
)

func newCodeGenerator() CodeGenerator {
	return trackcode.New(trackcode.DefaultLength)
}

func newUserRepository(store repository.Store) repository.UserRepository {
	return store.Users()
}
