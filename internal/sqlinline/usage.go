package sqlinline

const QInsertUsageEntry = `--sql 240a1114-8746-4fdb-9eed-8fcc99c74ee7
insert into usage_log(id, user_id, project_id, action, credits_used, source_address, country, created_at)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::text, $4::int, $5::text, $6::text, now());
`

const QListRecentUsage = `--sql fce19825-99b6-4eee-b7ba-f7391d810c8a
select id, user_id, coalesce(project_id::text, ''), action, credits_used, source_address, country, created_at
from usage_log
order by created_at desc
limit $1::int offset $2::int;
`
