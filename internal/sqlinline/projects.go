package sqlinline

const QInsertProject = `--sql 00e2be1d-ab37-4307-974c-9e8eaf152806
insert into projects(id, user_id, name, style, status, total_creatives, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, 0, now(), now())
returning id, created_at, updated_at;
`

const QSelectProjectByID = `--sql e2a3cbf2-8278-4165-9b53-1abbd0e96722
select id, user_id, name, style, status, total_creatives, created_at, updated_at
from projects
where id = $1::uuid
limit 1;
`

const QListProjectsByUser = `--sql a7693fb6-1ba9-4f30-bd4d-7e4313aafcdc
select id, user_id, name, style, status, total_creatives, created_at, updated_at
from projects
where user_id = $1::uuid
order by created_at desc;
`

const QUpdateProjectStatus = `--sql bf0084a8-8541-45d2-bac3-02a879714066
update projects
set status = $2::text,
    total_creatives = $3::int,
    updated_at = now()
where id = $1::uuid;
`

const QDeleteProject = `--sql 05d485af-e73c-41bc-b71e-f5db7607eead
delete from projects
where id = $1::uuid;
`
